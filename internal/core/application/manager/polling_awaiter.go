package manager

import (
	"context"
	"errors"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	DefaultPollAttempts = 10
	DefaultPollInterval = 100 * time.Millisecond
)

var errStatusNotReached = errors.New("status not reached")

// PollingAwaiter re-reads the order until it reports the wanted status or the
// attempt budget is spent. The first read happens immediately and each later one
// after a fixed interval, so the default budget gives up after about 900ms.
type PollingAwaiter struct {
	reader   ports.OrderReader
	attempts int
	interval time.Duration
	logger   *zap.Logger
}

func NewPollingAwaiter(reader ports.OrderReader, logger *zap.Logger) *PollingAwaiter {
	return NewPollingAwaiterWithBudget(reader, logger, DefaultPollAttempts, DefaultPollInterval)
}

// NewPollingAwaiterWithBudget overrides the attempt count and interval. attempts below 1 are raised to 1.
func NewPollingAwaiterWithBudget(reader ports.OrderReader, logger *zap.Logger, attempts int, interval time.Duration) *PollingAwaiter {
	if attempts < 1 {
		attempts = 1
	}
	return &PollingAwaiter{
		reader:   reader,
		attempts: attempts,
		interval: interval,
		logger:   logger.With(zap.String("component", "polling-awaiter")),
	}
}

func (a *PollingAwaiter) AwaitStatus(ctx context.Context, id kernel.UUID, want order.Status) error {
	start := time.Now()
	attempts := 0
	last := order.Unknown

	backoff := retry.WithMaxRetries(uint64(a.attempts-1), retry.NewConstant(a.interval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++

		o, err := a.reader.Get(ctx, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			a.logger.Debug("order not found while awaiting status", zap.String("order_id", id.String()))
			return retry.RetryableError(errStatusNotReached)
		}
		if err != nil {
			return err
		}

		last = o.Status()
		if last != want {
			a.logger.Debug("order status not reached yet",
				zap.String("order_id", id.String()),
				zap.String("status", last.String()),
				zap.String("want", want.String()),
			)
			return retry.RetryableError(errStatusNotReached)
		}
		return nil
	})

	if errors.Is(err, errStatusNotReached) {
		return &ports.SyncTimeoutError{
			OrderID:  id,
			Want:     want,
			Last:     last,
			Attempts: attempts,
			Elapsed:  time.Since(start),
		}
	}
	return err
}
