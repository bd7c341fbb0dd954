package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
)

// ErrSyncTimeout is returned when an awaited status does not show up in time.
var ErrSyncTimeout = errors.New("sync timeout")

// SyncTimeoutError reports the status that was awaited and the last one observed.
type SyncTimeoutError struct {
	OrderID  kernel.UUID
	Want     order.Status
	Last     order.Status
	Attempts int
	Elapsed  time.Duration
}

func (e *SyncTimeoutError) Error() string {
	return fmt.Sprintf("%s: order %s still %s after %d attempts in %s, wanted %s",
		ErrSyncTimeout, e.OrderID, e.Last, e.Attempts, e.Elapsed.Round(time.Millisecond), e.Want)
}

func (e *SyncTimeoutError) Unwrap() error {
	return ErrSyncTimeout
}

// StatusAwaiter blocks until the persisted order reaches a status.
//
// AwaitStatus returns nil once the store reports the status. When the wait budget
// runs out it returns a *SyncTimeoutError; callers treat that as a soft failure.
type StatusAwaiter interface {
	AwaitStatus(ctx context.Context, id kernel.UUID, status order.Status) error
}

// StatusNotifier announces a committed status change.
type StatusNotifier interface {
	NotifyStatus(ctx context.Context, id kernel.UUID, status order.Status) error
}
