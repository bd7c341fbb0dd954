package commands

import (
	"context"
	"fmt"

	"orderservice/internal/core/application/manager"
	"orderservice/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels orders on behalf of API callers.
//
// Unlike the saga, which tolerates a late cancel silently, the handler reports a
// rejected cancel as ErrOrderStateConflict so the caller learns the order moved on.
type CancelOrderCommandHandler struct {
	canceller OrderCanceller
}

func NewCancelOrderCommandHandler(canceller OrderCanceller) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{canceller: canceller}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	outcome, err := h.canceller.CancelOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	return outcomeError(outcome, cmd.OrderID().String(), "cancel")
}

func outcomeError(outcome manager.Outcome, id, operation string) error {
	switch outcome {
	case manager.OutcomeNotFound:
		return errs.NewObjectNotFoundError("order", id)
	case manager.OutcomeInvalidTransition:
		return fmt.Errorf("%s order %s: %w", operation, id, ErrOrderStateConflict)
	case manager.OutcomeSuccess, manager.OutcomeSyncTimeout, manager.OutcomeFailed:
		return nil
	}
	return nil
}
