// Package ports defines the contracts between the order core and its infrastructure:
// persistence, transactions, outbound messaging and status synchronization.
package ports

import (
	"context"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
)

// OrderReader loads the persisted state of an order.
type OrderReader interface {
	// Get retrieves an order aggregate by its unique identifier.
	// A miss is reported as errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderRepository defines the persistence contract for order aggregates.
// The stored record is the single source of truth for an order's status.
type OrderRepository interface {
	OrderReader

	// Add persists a new order aggregate with its lines.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status and allocated quantities of an existing order.
	// The write succeeds only if the stored version still equals aggregate.Version();
	// otherwise errs.VersionConflictError is returned. On success the aggregate's
	// version is advanced.
	Update(ctx context.Context, aggregate *order.Order) error
}
