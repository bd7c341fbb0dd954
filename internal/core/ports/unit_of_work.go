package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per event dispatch, so concurrent
// consumers never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes the reads and writes of one dispatch to a single transaction.
//
// The caller owns the lifecycle: Begin, then Commit on success. A deferred Rollback
// after Commit returns an error and is safe to ignore.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit makes the writes durable and then reports the final status of every
	// order written in the transaction to the StatusNotifier, if one is configured.
	Commit(ctx context.Context) error

	// Rollback discards uncommitted writes.
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the open transaction, or to the plain connection
	// before Begin.
	OrderRepository() OrderRepository
}
