package commands

import (
	"context"
)

// PickUpOrderCommandHandler moves an allocated order to PICKED_UP.
type PickUpOrderCommandHandler struct {
	picker OrderPicker
}

func NewPickUpOrderCommandHandler(picker OrderPicker) PickUpOrderCommandHandler {
	return PickUpOrderCommandHandler{picker: picker}
}

func (h PickUpOrderCommandHandler) Handle(ctx context.Context, cmd PickUpOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	outcome, err := h.picker.PickUpOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	return outcomeError(outcome, cmd.OrderID().String(), "pick up")
}
