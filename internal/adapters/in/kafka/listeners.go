package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"orderservice/internal/core/application/manager"
	"orderservice/internal/core/application/messages"
	"orderservice/internal/core/domain/model/kernel"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ValidationResultProcessor is the manager operation behind the validation reply topic.
type ValidationResultProcessor interface {
	ProcessValidationResult(ctx context.Context, id kernel.UUID, isValid bool) (manager.Outcome, error)
}

// AllocationResultProcessor holds the manager operations behind the allocation reply topic.
type AllocationResultProcessor interface {
	AllocationPassed(ctx context.Context, dto messages.OrderDTO) (manager.Outcome, error)
	AllocationPendingInventory(ctx context.Context, dto messages.OrderDTO) (manager.Outcome, error)
	AllocationFailed(ctx context.Context, dto messages.OrderDTO) (manager.Outcome, error)
}

// ValidationResultListener translates validation replies.
type ValidationResultListener struct {
	processor ValidationResultProcessor
	logger    *zap.Logger
}

func NewValidationResultListener(processor ValidationResultProcessor, logger *zap.Logger) *ValidationResultListener {
	return &ValidationResultListener{
		processor: processor,
		logger:    logger.With(zap.String("component", "validation-result-listener")),
	}
}

func (l *ValidationResultListener) Handle(ctx context.Context, msg kafkago.Message) error {
	var result messages.ValidateOrderResult
	if err := json.Unmarshal(msg.Value, &result); err != nil {
		return fmt.Errorf("decode validation result: %w", err)
	}

	id, err := kernel.UUIDFromBytes(result.OrderID[:])
	if err != nil {
		return fmt.Errorf("validation result order id: %w", err)
	}

	outcome, err := l.processor.ProcessValidationResult(ctx, id, result.IsValid)
	return acknowledge(l.logger, id, outcome, err)
}

// AllocationRoute names the manager operation an allocation reply goes to.
type AllocationRoute int

const (
	RoutePassed AllocationRoute = iota
	RoutePendingInventory
	RouteFailed
)

func (r AllocationRoute) String() string {
	switch r {
	case RoutePassed:
		return "passed"
	case RoutePendingInventory:
		return "pending_inventory"
	case RouteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Route picks the operation for a reply. An allocation error wins over pending inventory.
func Route(result messages.AllocateOrderResult) AllocationRoute {
	switch {
	case result.AllocationError:
		return RouteFailed
	case result.PendingInventory:
		return RoutePendingInventory
	default:
		return RoutePassed
	}
}

// AllocationResultListener translates allocation replies.
type AllocationResultListener struct {
	processor AllocationResultProcessor
	logger    *zap.Logger
}

func NewAllocationResultListener(processor AllocationResultProcessor, logger *zap.Logger) *AllocationResultListener {
	return &AllocationResultListener{
		processor: processor,
		logger:    logger.With(zap.String("component", "allocation-result-listener")),
	}
}

func (l *AllocationResultListener) Handle(ctx context.Context, msg kafkago.Message) error {
	var result messages.AllocateOrderResult
	if err := json.Unmarshal(msg.Value, &result); err != nil {
		return fmt.Errorf("decode allocation result: %w", err)
	}

	id, err := result.Order.OrderID()
	if err != nil {
		return fmt.Errorf("allocation result order id: %w", err)
	}

	var outcome manager.Outcome
	switch Route(result) {
	case RouteFailed:
		outcome, err = l.processor.AllocationFailed(ctx, result.Order)
	case RoutePendingInventory:
		outcome, err = l.processor.AllocationPendingInventory(ctx, result.Order)
	default:
		outcome, err = l.processor.AllocationPassed(ctx, result.Order)
	}
	return acknowledge(l.logger, id, outcome, err)
}

// acknowledge applies the reply policy: manager errors are returned for dead-lettering,
// every non-error outcome is acknowledged.
func acknowledge(logger *zap.Logger, id kernel.UUID, outcome manager.Outcome, err error) error {
	if err != nil {
		return fmt.Errorf("order %s: %w", id, err)
	}

	fields := []zap.Field{
		zap.String("order_id", id.String()),
		zap.Stringer("outcome", outcome),
	}
	switch outcome {
	case manager.OutcomeSuccess:
		logger.Debug("reply processed", fields...)
	case manager.OutcomeNotFound:
		logger.Warn("reply for unknown order acknowledged", fields...)
	default:
		logger.Info("reply acknowledged without effect", fields...)
	}
	return nil
}
