// Package actions implements the side effects attached to order lifecycle edges.
//
// Every action reads the order id from the services.ActionContext it is given and
// loads whatever else it needs itself; nothing is shared between invocations.
package actions

import (
	"context"
	"fmt"

	"orderservice/internal/core/application/messages"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/domain/services"
	"orderservice/internal/core/ports"

	"go.uber.org/zap"
)

// Registry wires every action kind the transition table names to its implementation.
func Registry(reader ports.OrderReader, publisher ports.MessagePublisher, logger *zap.Logger) map[order.ActionKind]services.Action {
	return map[order.ActionKind]services.Action{
		order.SendValidationRequest:   NewValidateOrderAction(reader, publisher),
		order.SendAllocationRequest:   NewAllocateOrderAction(reader, publisher),
		order.SendAllocationFailure:   NewAllocationFailedAction(publisher),
		order.LogCompensation:         NewValidationFailedAction(logger),
		order.SendDeallocationRequest: NewDeallocateOrderAction(reader, publisher),
	}
}

// ValidateOrderAction sends the current order snapshot to the validation service.
type ValidateOrderAction struct {
	reader    ports.OrderReader
	publisher ports.MessagePublisher
}

func NewValidateOrderAction(reader ports.OrderReader, publisher ports.MessagePublisher) *ValidateOrderAction {
	return &ValidateOrderAction{reader: reader, publisher: publisher}
}

func (a *ValidateOrderAction) Execute(ctx context.Context, ac services.ActionContext) error {
	o, err := a.reader.Get(ctx, ac.OrderID)
	if err != nil {
		return fmt.Errorf("load order for validation: %w", err)
	}

	return a.publisher.PublishValidateOrder(ctx, messages.ValidateOrderRequest{Order: messages.OrderFromDomain(o)})
}

// AllocateOrderAction sends the current order snapshot to the inventory service.
type AllocateOrderAction struct {
	reader    ports.OrderReader
	publisher ports.MessagePublisher
}

func NewAllocateOrderAction(reader ports.OrderReader, publisher ports.MessagePublisher) *AllocateOrderAction {
	return &AllocateOrderAction{reader: reader, publisher: publisher}
}

func (a *AllocateOrderAction) Execute(ctx context.Context, ac services.ActionContext) error {
	o, err := a.reader.Get(ctx, ac.OrderID)
	if err != nil {
		return fmt.Errorf("load order for allocation: %w", err)
	}

	return a.publisher.PublishAllocateOrder(ctx, messages.AllocateOrderRequest{Order: messages.OrderFromDomain(o)})
}

// AllocationFailedAction announces a failed allocation. It does not touch the store.
type AllocationFailedAction struct {
	publisher ports.MessagePublisher
}

func NewAllocationFailedAction(publisher ports.MessagePublisher) *AllocationFailedAction {
	return &AllocationFailedAction{publisher: publisher}
}

func (a *AllocationFailedAction) Execute(ctx context.Context, ac services.ActionContext) error {
	return a.publisher.PublishAllocationFailure(ctx, messages.AllocationFailureEvent{OrderID: ac.OrderID.Bytes()})
}

// ValidationFailedAction records the compensating step for a rejected order.
type ValidationFailedAction struct {
	logger *zap.Logger
}

func NewValidationFailedAction(logger *zap.Logger) *ValidationFailedAction {
	return &ValidationFailedAction{logger: logger.With(zap.String("component", "validation-failed-action"))}
}

func (a *ValidationFailedAction) Execute(_ context.Context, ac services.ActionContext) error {
	a.logger.Error("compensating transaction: order validation failed",
		zap.String("order_id", ac.OrderID.String()),
		zap.String("status", ac.To.String()),
	)
	return nil
}

// DeallocateOrderAction asks the inventory service to release stock for a cancelled order.
type DeallocateOrderAction struct {
	reader    ports.OrderReader
	publisher ports.MessagePublisher
}

func NewDeallocateOrderAction(reader ports.OrderReader, publisher ports.MessagePublisher) *DeallocateOrderAction {
	return &DeallocateOrderAction{reader: reader, publisher: publisher}
}

func (a *DeallocateOrderAction) Execute(ctx context.Context, ac services.ActionContext) error {
	o, err := a.reader.Get(ctx, ac.OrderID)
	if err != nil {
		return fmt.Errorf("load order for deallocation: %w", err)
	}

	return a.publisher.PublishDeallocateOrder(ctx, messages.DeallocateOrderRequest{Order: messages.OrderFromDomain(o)})
}
