// Package redis carries order status changes over redis pub/sub so callers can
// wait for a status without polling the store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	channelPrefix      = "order-status:"
	DefaultWaitTimeout = time.Second
)

var errSubscriptionClosed = errors.New("status subscription closed")

// ChannelName is the pub/sub channel carrying status changes of one order.
func ChannelName(id kernel.UUID) string {
	return channelPrefix + id.String()
}

// StatusChannel implements ports.StatusNotifier and ports.StatusAwaiter.
type StatusChannel struct {
	client  goredis.UniversalClient
	reader  ports.OrderReader
	timeout time.Duration
	logger  *zap.Logger
}

func NewStatusChannel(client goredis.UniversalClient, reader ports.OrderReader, logger *zap.Logger) *StatusChannel {
	return NewStatusChannelWithTimeout(client, reader, logger, DefaultWaitTimeout)
}

func NewStatusChannelWithTimeout(
	client goredis.UniversalClient,
	reader ports.OrderReader,
	logger *zap.Logger,
	timeout time.Duration,
) *StatusChannel {
	return &StatusChannel{
		client:  client,
		reader:  reader,
		timeout: timeout,
		logger:  logger.With(zap.String("component", "redis-status-channel")),
	}
}

// NotifyStatus publishes the status name on the order's channel.
func (c *StatusChannel) NotifyStatus(ctx context.Context, id kernel.UUID, status order.Status) error {
	if err := c.client.Publish(ctx, ChannelName(id), status.String()).Err(); err != nil {
		return fmt.Errorf("publish status of order %s: %w", id, err)
	}
	return nil
}

// AwaitStatus subscribes before reading the store so that a change committed between
// the read and the wait is not missed.
func (c *StatusChannel) AwaitStatus(ctx context.Context, id kernel.UUID, want order.Status) error {
	start := time.Now()

	sub := c.client.Subscribe(ctx, ChannelName(id))
	defer func() {
		if err := sub.Close(); err != nil {
			c.logger.Debug("failed to close subscription", zap.Error(err))
		}
	}()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", ChannelName(id), err)
	}

	last := order.Unknown
	o, err := c.reader.Get(ctx, id)
	switch {
	case err == nil:
		last = o.Status()
		if last == want {
			return nil
		}
	case errors.Is(err, errs.ErrObjectNotFound):
	default:
		return err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	observed := 1
	updates := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return &ports.SyncTimeoutError{
				OrderID:  id,
				Want:     want,
				Last:     last,
				Attempts: observed,
				Elapsed:  time.Since(start),
			}
		case msg, ok := <-updates:
			if !ok {
				return errSubscriptionClosed
			}
			status, parseErr := order.StatusFromString(msg.Payload)
			if parseErr != nil {
				c.logger.Warn("ignoring malformed status message",
					zap.String("order_id", id.String()),
					zap.String("payload", msg.Payload),
				)
				continue
			}
			observed++
			last = status
			if status == want {
				return nil
			}
		}
	}
}
