package commands

import (
	"errors"
	"fmt"

	"orderservice/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrLinesAreRequired      = errors.New("at least one order line is required")
	ErrProductCodeIsRequired = errors.New("product code is required")
	ErrQuantityIsInvalid     = errors.New("quantity must be greater than 0")
)

// CreateOrderLine is one requested product and quantity.
type CreateOrderLine struct {
	ProductCode string
	Quantity    int
}

// CreateOrderCommand represents a request to place a new order.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("customer-42", []CreateOrderLine{{ProductCode: "0631234200036", Quantity: 12}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(orderManager)
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerRef string
	lines       []CreateOrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the requested lines. The customer reference is optional.
func NewCreateOrderCommand(customerRef string, lines []CreateOrderLine) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerRef: customerRef,
		guard:       guard.NewConstructorGuard(),
	}

	if err := cmd.setLines(lines); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerRef() string {
	return c.customerRef
}

// Lines returns a copy of the requested lines.
func (c CreateOrderCommand) Lines() []CreateOrderLine {
	return append([]CreateOrderLine(nil), c.lines...)
}

func (c *CreateOrderCommand) setLines(lines []CreateOrderLine) error {
	if len(lines) == 0 {
		return ErrLinesAreRequired
	}

	var lineErrs []error
	for i, l := range lines {
		if l.ProductCode == "" {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", i, ErrProductCodeIsRequired))
		}
		if l.Quantity <= 0 {
			lineErrs = append(lineErrs, fmt.Errorf("line %d: %w", i, ErrQuantityIsInvalid))
		}
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}

	c.lines = append([]CreateOrderLine(nil), lines...)
	return nil
}
