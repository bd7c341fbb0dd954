// Package commands contains business operations that modify order state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every command is validated at construction and executed through the order saga manager.
package commands

import (
	"context"
	"errors"

	"orderservice/internal/core/application/manager"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
)

// ErrOrderStateConflict is returned when the order's current status does not allow the command.
var ErrOrderStateConflict = errors.New("order state does not allow this operation")

type (
	// OrderCreator starts the saga for a new order.
	OrderCreator interface {
		NewOrder(ctx context.Context, draft *order.Order) (*order.Order, manager.Outcome, error)
	}

	// OrderCanceller cancels an order.
	OrderCanceller interface {
		CancelOrder(ctx context.Context, id kernel.UUID) (manager.Outcome, error)
	}

	// OrderPicker marks an order as picked up.
	OrderPicker interface {
		PickUpOrder(ctx context.Context, id kernel.UUID) (manager.Outcome, error)
	}
)
