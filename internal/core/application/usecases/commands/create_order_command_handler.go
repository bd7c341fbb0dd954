package commands

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
)

// CreateOrderCommandHandler turns a CreateOrderCommand into a new order and starts validation.
type CreateOrderCommandHandler struct {
	creator OrderCreator
}

func NewCreateOrderCommandHandler(creator OrderCreator) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{creator: creator}
}

// Handle returns the persisted order. The new order is returned even when the saga did
// not advance past NEW, as long as no error occurred.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	lines := make([]*order.Line, 0, len(cmd.Lines()))
	for _, l := range cmd.Lines() {
		line, err := order.NewLine(kernel.NewUUID(), l.ProductCode, l.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	draft, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerRef(), lines)
	if err != nil {
		return nil, err
	}

	created, _, err := h.creator.NewOrder(ctx, draft)
	if err != nil {
		return nil, err
	}
	return created, nil
}
