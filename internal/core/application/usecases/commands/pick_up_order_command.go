package commands

import (
	"errors"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/pkg/guard"
)

var ErrPickUpOrderCommandIsNotConstructed = errors.New(
	"PickUpOrderCommand must be created via NewPickUpOrderCommand constructor",
)

// PickUpOrderCommand records that the customer collected an allocated order.
type PickUpOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewPickUpOrderCommand(orderID kernel.UUID) (PickUpOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return PickUpOrderCommand{}, err
	}
	return PickUpOrderCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c PickUpOrderCommand) Validate() error {
	return c.guard.Validate(ErrPickUpOrderCommandIsNotConstructed)
}

func (c PickUpOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
