// Package postgres provides the GORM-based Unit of Work used by the order saga.
// A unit of work wraps one database transaction, hands out repositories bound to it,
// and after a successful commit announces the status of every order written in it.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, notifier, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is single-goroutine; concurrent dispatches create their own.
package postgres

import (
	"context"

	"orderservice/internal/adapters/out/postgres/orderrepo"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	notifier ports.StatusNotifier
	logger   *zap.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// notifier may be nil when nothing listens for status changes.
func NewGormUnitOfWorkFactory(db *gorm.DB, notifier ports.StatusNotifier, logger *zap.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:       db,
		notifier: notifier,
		logger:   logger.With(zap.String("component", "unit-of-work")),
	}
}

// Create produces a new UnitOfWork instance with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		notifier:          f.notifier,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the orders written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	notifier          ports.StatusNotifier
	logger            *zap.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then notifies the status of each tracked order.
// Notification failures are logged; the data is already committed.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.notifyTracked(ctx)
	return nil
}

// Rollback discards the transaction and forgets tracked aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository returns a repository bound to the active transaction, or to the plain
// connection when Begin has not been called.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers an aggregate as modified within this unit of work.
// Repositories call it after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedCount reports how many writes the unit of work has seen since the last commit or rollback.
func (uow *GormUnitOfWork) TrackedCount() int {
	return len(uow.trackedAggregates)
}

func (uow *GormUnitOfWork) notifyTracked(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	if uow.notifier == nil {
		return
	}

	// Only the last write per order matters to listeners.
	latest := make(map[kernel.UUID]order.Status, len(tracked))
	ids := make([]kernel.UUID, 0, len(tracked))
	for _, t := range tracked {
		o, ok := t.Aggregate.(*order.Order)
		if !ok {
			continue
		}
		if _, seen := latest[t.ID]; !seen {
			ids = append(ids, t.ID)
		}
		latest[t.ID] = o.Status()
	}

	for _, id := range ids {
		if err := uow.notifier.NotifyStatus(ctx, id, latest[id]); err != nil {
			uow.logger.Warn("failed to announce order status",
				zap.String("order_id", id.String()),
				zap.String("status", latest[id].String()),
				zap.Error(err),
			)
		}
	}
}

// AutoMigrate creates or updates the order tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderLineDTO{})
}
