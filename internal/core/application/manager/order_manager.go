package manager

import (
	"context"
	"errors"
	"fmt"

	"orderservice/internal/core/application/messages"
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/domain/services"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"

	"go.uber.org/zap"
)

// OrderManager coordinates validation and allocation of orders.
//
// Example usage:
//
//	machine, _ := services.NewOrderStateMachine(actions.Registry(reader, publisher, logger))
//	m := manager.NewOrderManager(uowFactory, reader, machine, manager.NewPollingAwaiter(reader, logger), logger)
//
//	saved, outcome, err := m.NewOrder(ctx, draft)
//	if err != nil {
//	    return err
//	}
//	// saved.Status() is VALIDATION_PENDING when outcome is OutcomeSuccess
type OrderManager struct {
	uowFactory ports.UnitOfWorkFactory
	reader     ports.OrderReader
	machine    *services.OrderStateMachine
	awaiter    ports.StatusAwaiter
	logger     *zap.Logger
}

func NewOrderManager(
	uowFactory ports.UnitOfWorkFactory,
	reader ports.OrderReader,
	machine *services.OrderStateMachine,
	awaiter ports.StatusAwaiter,
	logger *zap.Logger,
) *OrderManager {
	return &OrderManager{
		uowFactory: uowFactory,
		reader:     reader,
		machine:    machine,
		awaiter:    awaiter,
		logger:     logger.With(zap.String("component", "order-manager")),
	}
}

// NewOrder stores draft under a fresh identifier in NEW status and starts validation.
// Any id, status or allocated quantity on draft is discarded.
func (m *OrderManager) NewOrder(ctx context.Context, draft *order.Order) (*order.Order, Outcome, error) {
	if err := draft.Validate(); err != nil {
		return nil, OutcomeFailed, err
	}

	lines := make([]*order.Line, 0, len(draft.Lines()))
	for _, l := range draft.Lines() {
		line, err := order.NewLine(l.ID(), l.ProductCode(), l.QuantityOrdered())
		if err != nil {
			return nil, OutcomeFailed, err
		}
		lines = append(lines, line)
	}

	fresh, err := order.NewOrder(kernel.NewUUID(), draft.CustomerRef(), lines)
	if err != nil {
		return nil, OutcomeFailed, err
	}

	if err = m.add(ctx, fresh); err != nil {
		return nil, OutcomeFailed, fmt.Errorf("save new order: %w", err)
	}
	m.logger.Info("order created", zap.String("order_id", fresh.ID().String()))

	outcome, _, err := m.sendEvent(ctx, fresh.ID(), order.ValidateOrder)
	if err != nil {
		return nil, outcome, err
	}

	saved, err := m.reader.Get(ctx, fresh.ID())
	if err != nil {
		return nil, OutcomeFailed, fmt.Errorf("reload new order: %w", err)
	}
	return saved, outcome, nil
}

// ProcessValidationResult applies the validation service's verdict. A valid order
// is moved on to allocation once the store reflects VALIDATED.
func (m *OrderManager) ProcessValidationResult(ctx context.Context, id kernel.UUID, isValid bool) (Outcome, error) {
	if !isValid {
		outcome, _, err := m.sendEvent(ctx, id, order.ValidationFailed)
		return outcome, err
	}

	outcome, current, err := m.sendEvent(ctx, id, order.ValidationPassed)
	if err != nil {
		return outcome, err
	}

	// A redelivered verdict finds the order already VALIDATED when the allocation
	// request was never sent.
	replay := outcome == OutcomeInvalidTransition && current != nil && current.Status() == order.Validated
	if outcome != OutcomeSuccess && !replay {
		return outcome, nil
	}

	waited := OutcomeSuccess
	if !replay {
		if waited, err = m.await(ctx, id, order.Validated); err != nil {
			return waited, err
		}
	}

	outcome, _, err = m.sendEvent(ctx, id, order.AllocateOrder)
	if err != nil || outcome != OutcomeSuccess {
		return outcome, err
	}
	return waited, nil
}

// AllocationPassed records a full allocation and copies the allocated quantities.
func (m *OrderManager) AllocationPassed(ctx context.Context, dto messages.OrderDTO) (Outcome, error) {
	return m.allocated(ctx, dto, order.AllocationSuccess, order.Allocated)
}

// AllocationPendingInventory records a partial allocation and copies the allocated quantities.
func (m *OrderManager) AllocationPendingInventory(ctx context.Context, dto messages.OrderDTO) (Outcome, error) {
	return m.allocated(ctx, dto, order.AllocationNoInventory, order.PendingInventory)
}

// AllocationFailed records that the inventory service could not allocate the order.
func (m *OrderManager) AllocationFailed(ctx context.Context, dto messages.OrderDTO) (Outcome, error) {
	id, err := dto.OrderID()
	if err != nil {
		return OutcomeFailed, err
	}

	outcome, _, err := m.sendEvent(ctx, id, order.AllocationFailed)
	return outcome, err
}

// CancelOrder cancels an order that is not yet picked up. Cancelling an order that
// cannot be cancelled is not an error.
func (m *OrderManager) CancelOrder(ctx context.Context, id kernel.UUID) (Outcome, error) {
	outcome, _, err := m.sendEvent(ctx, id, order.CancelOrder)
	return outcome, err
}

// PickUpOrder marks an allocated order as picked up.
func (m *OrderManager) PickUpOrder(ctx context.Context, id kernel.UUID) (Outcome, error) {
	outcome, _, err := m.sendEvent(ctx, id, order.OrderPickedUp)
	return outcome, err
}

func (m *OrderManager) allocated(ctx context.Context, dto messages.OrderDTO, event order.Event, want order.Status) (Outcome, error) {
	id, err := dto.OrderID()
	if err != nil {
		return OutcomeFailed, err
	}
	allocations, err := dto.Allocations()
	if err != nil {
		return OutcomeFailed, err
	}

	outcome, current, err := m.sendEvent(ctx, id, event)
	if err != nil {
		return outcome, err
	}

	// A redelivered reply finds the order already in the target status.
	replay := outcome == OutcomeInvalidTransition && current != nil && current.Status() == want
	if outcome != OutcomeSuccess && !replay {
		return outcome, nil
	}

	waited := OutcomeSuccess
	if !replay {
		if waited, err = m.await(ctx, id, want); err != nil {
			return waited, err
		}
	}

	outcome, err = m.updateAllocation(ctx, id, allocations)
	if err != nil || outcome != OutcomeSuccess {
		return outcome, err
	}
	return waited, nil
}

// sendEvent reloads the order, applies event and persists the resulting status.
// The loaded order is returned with OutcomeSuccess and OutcomeInvalidTransition.
func (m *OrderManager) sendEvent(ctx context.Context, id kernel.UUID, event order.Event) (Outcome, *order.Order, error) {
	log := m.logger.With(zap.String("order_id", id.String()), zap.String("event", event.String()))

	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OutcomeFailed, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		log.Warn("order not found")
		return OutcomeNotFound, nil, nil
	}
	if err != nil {
		return OutcomeFailed, nil, err
	}

	from := o.Status()
	next, err := m.machine.Apply(ctx, from, event, id)
	if errors.Is(err, services.ErrInvalidTransition) {
		if event == order.CancelOrder {
			log.Debug("order cannot be cancelled", zap.String("status", from.String()))
		} else {
			log.Warn("event rejected by order state machine", zap.String("status", from.String()))
		}
		return OutcomeInvalidTransition, o, nil
	}
	if err != nil {
		return OutcomeFailed, nil, err
	}

	if err = o.SetStatus(next); err != nil {
		return OutcomeFailed, nil, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return OutcomeFailed, nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return OutcomeFailed, nil, err
	}

	log.Info("order status changed", zap.String("from", from.String()), zap.String("status", next.String()))
	return OutcomeSuccess, o, nil
}

func (m *OrderManager) await(ctx context.Context, id kernel.UUID, want order.Status) (Outcome, error) {
	err := m.awaiter.AwaitStatus(ctx, id, want)
	if err == nil {
		return OutcomeSuccess, nil
	}

	var timeout *ports.SyncTimeoutError
	if errors.As(err, &timeout) {
		m.logger.Warn("order status not observed in time, continuing with last read state",
			zap.String("order_id", id.String()),
			zap.String("want", want.String()),
			zap.String("status", timeout.Last.String()),
			zap.Int("attempts", timeout.Attempts),
			zap.Duration("elapsed", timeout.Elapsed),
		)
		return OutcomeSyncTimeout, nil
	}
	return OutcomeFailed, err
}

func (m *OrderManager) updateAllocation(ctx context.Context, id kernel.UUID, allocations []order.LineAllocation) (Outcome, error) {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OutcomeFailed, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		m.logger.Warn("order not found while applying allocation", zap.String("order_id", id.String()))
		return OutcomeNotFound, nil
	}
	if err != nil {
		return OutcomeFailed, err
	}

	changed, err := o.ApplyAllocation(allocations)
	if err != nil {
		return OutcomeFailed, err
	}
	if !changed {
		m.logger.Debug("allocation already applied", zap.String("order_id", id.String()))
		return OutcomeSuccess, nil
	}

	if err = repo.Update(ctx, o); err != nil {
		return OutcomeFailed, err
	}
	if err = uow.Commit(ctx); err != nil {
		return OutcomeFailed, err
	}
	return OutcomeSuccess, nil
}

func (m *OrderManager) add(ctx context.Context, o *order.Order) error {
	uow := m.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
