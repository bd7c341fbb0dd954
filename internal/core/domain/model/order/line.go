package order

import (
	"errors"
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/errs"
)

// Line is one item entry on an order. Its identity is scoped to the order.
type Line struct {
	id                kernel.UUID
	productCode       string
	quantityOrdered   int
	quantityAllocated int
}

// NewLine creates a line with nothing allocated yet.
func NewLine(id kernel.UUID, productCode string, quantityOrdered int) (*Line, error) {
	return RestoreLine(id, productCode, quantityOrdered, 0)
}

// RestoreLine rebuilds a line from persisted state.
func RestoreLine(id kernel.UUID, productCode string, quantityOrdered, quantityAllocated int) (*Line, error) {
	l := &Line{}
	if err := errors.Join(
		l.setID(id),
		l.setProductCode(productCode),
		l.setQuantityOrdered(quantityOrdered),
		l.setQuantityAllocated(quantityAllocated),
	); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Line) ID() kernel.UUID {
	return l.id
}

func (l *Line) ProductCode() string {
	return l.productCode
}

func (l *Line) QuantityOrdered() int {
	return l.quantityOrdered
}

func (l *Line) QuantityAllocated() int {
	return l.quantityAllocated
}

func (l *Line) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	l.id = id
	return nil
}

func (l *Line) setProductCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("product code")
	}
	l.productCode = code
	return nil
}

func (l *Line) setQuantityOrdered(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity ordered", fmt.Errorf("%d is not greater than 0", quantity))
	}
	l.quantityOrdered = quantity
	return nil
}

func (l *Line) setQuantityAllocated(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity allocated", fmt.Errorf("%d is negative", quantity))
	}
	l.quantityAllocated = quantity
	return nil
}

// LineAllocation carries the allocated quantity an allocation reply reports for one line.
type LineAllocation struct {
	LineID            kernel.UUID
	QuantityAllocated int
}
