package ports

import (
	"context"

	"orderservice/internal/core/application/messages"
)

// MessagePublisher sends the saga's outbound requests and notifications.
// Implementations key every message by order id.
type MessagePublisher interface {
	PublishValidateOrder(ctx context.Context, req messages.ValidateOrderRequest) error
	PublishAllocateOrder(ctx context.Context, req messages.AllocateOrderRequest) error
	PublishAllocationFailure(ctx context.Context, evt messages.AllocationFailureEvent) error
	PublishDeallocateOrder(ctx context.Context, req messages.DeallocateOrderRequest) error
}
