// Package queries contains read-only operations over orders.
package queries

import (
	"errors"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches a single order with its lines.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderLineResponse is the read model of a line.
type OrderLineResponse struct {
	ID                kernel.UUID
	ProductCode       string
	QuantityOrdered   int
	QuantityAllocated int
}

// OrderResponse is the read model of an order.
type OrderResponse struct {
	ID          kernel.UUID
	CustomerRef string
	Status      string
	Version     int
	Lines       []OrderLineResponse
}
