// Package messages defines the JSON payloads exchanged with the validation and
// allocation services.
package messages

import (
	"fmt"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderLineDTO is the wire form of an order line.
type OrderLineDTO struct {
	ID                uuid.UUID `json:"id"`
	ProductCode       string    `json:"productCode"`
	QuantityOrdered   int       `json:"orderQuantity"`
	QuantityAllocated int       `json:"quantityAllocated"`
}

// OrderDTO is the wire form of an order.
type OrderDTO struct {
	ID          uuid.UUID      `json:"id"`
	CustomerRef string         `json:"customerRef,omitempty"`
	Status      string         `json:"orderStatus"`
	Lines       []OrderLineDTO `json:"orderLines"`
}

// OrderFromDomain snapshots an order for a request payload.
func OrderFromDomain(o *order.Order) OrderDTO {
	lines := make([]OrderLineDTO, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLineDTO{
			ID:                l.ID().Bytes(),
			ProductCode:       l.ProductCode(),
			QuantityOrdered:   l.QuantityOrdered(),
			QuantityAllocated: l.QuantityAllocated(),
		})
	}

	return OrderDTO{
		ID:          o.ID().Bytes(),
		CustomerRef: o.CustomerRef(),
		Status:      o.Status().String(),
		Lines:       lines,
	}
}

// OrderID parses the order identifier.
func (d OrderDTO) OrderID() (kernel.UUID, error) {
	return kernel.UUIDFromBytes(d.ID[:])
}

// Allocations extracts the per-line allocated quantities reported in a reply.
func (d OrderDTO) Allocations() ([]order.LineAllocation, error) {
	out := make([]order.LineAllocation, 0, len(d.Lines))
	for i, l := range d.Lines {
		id, err := kernel.UUIDFromBytes(l.ID[:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		out = append(out, order.LineAllocation{LineID: id, QuantityAllocated: l.QuantityAllocated})
	}
	return out, nil
}

// ValidateOrderRequest asks the validation service to check an order.
type ValidateOrderRequest struct {
	Order OrderDTO `json:"order"`
}

// ValidateOrderResult is the validation service's verdict.
type ValidateOrderResult struct {
	OrderID uuid.UUID `json:"orderId"`
	IsValid bool      `json:"isValid"`
}

// AllocateOrderRequest asks the inventory service to reserve stock.
type AllocateOrderRequest struct {
	Order OrderDTO `json:"order"`
}

// AllocateOrderResult is the inventory service's reply. AllocationError takes
// precedence over PendingInventory.
type AllocateOrderResult struct {
	Order            OrderDTO `json:"order"`
	AllocationError  bool     `json:"allocationError"`
	PendingInventory bool     `json:"pendingInventory"`
}

// AllocationFailureEvent notifies downstream parties that allocation failed.
type AllocationFailureEvent struct {
	OrderID uuid.UUID `json:"orderId"`
}

// DeallocateOrderRequest asks the inventory service to release stock held for a cancelled order.
type DeallocateOrderRequest struct {
	Order OrderDTO `json:"order"`
}
