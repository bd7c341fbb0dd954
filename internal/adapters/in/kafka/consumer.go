// Package kafka consumes the validation and allocation replies and forwards them
// to the order manager.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"orderservice/internal/pkg/telemetry"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DeadLetterSuffix = ".DLT"

	HeaderOriginalTopic     = "x-original-topic"
	HeaderOriginalPartition = "x-original-partition"
	HeaderOriginalOffset    = "x-original-offset"
	HeaderExceptionMessage  = "x-exception-message"
)

// fetchRetryDelay is how long Run waits after a failed fetch.
var fetchRetryDelay = time.Second

// Reader is the part of *kafka.Reader the consumer uses. The reader must belong to a
// consumer group so that CommitMessages is available.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Writer receives dead letters.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Handler processes one message. A returned error sends the message to the dead-letter topic.
type Handler interface {
	Handle(ctx context.Context, msg kafkago.Message) error
}

// Consumer runs the fetch, handle, commit loop for one topic.
type Consumer struct {
	reader     Reader
	deadLetter Writer
	handler    Handler
	logger     *zap.Logger
}

func NewConsumer(reader Reader, deadLetter Writer, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader:     reader,
		deadLetter: deadLetter,
		handler:    handler,
		logger:     logger.With(zap.String("component", "kafka-consumer")),
	}
}

// Run blocks until ctx is cancelled, which is reported as a nil error. A message whose
// handler fails after cancellation is neither dead-lettered nor committed. Run returns
// an error only when a failed message can be neither dead-lettered nor committed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped")
				return nil
			}
			c.logger.Error("failed to fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
				c.logger.Info("consumer stopped")
				return nil
			case <-time.After(fetchRetryDelay):
			}
			continue
		}

		if err = c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped")
				return nil
			}
			return err
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Error("failed to commit message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) process(parent context.Context, msg kafkago.Message) error {
	carrier := telemetry.KafkaHeaderCarrier(msg.Headers)
	ctx := otel.GetTextMapPropagator().Extract(parent, &carrier)
	ctx, span := telemetry.Tracer().Start(ctx, msg.Topic+" process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.destination.partition", msg.Partition),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()

	handleErr := c.handler.Handle(ctx, msg)
	if handleErr == nil {
		return nil
	}

	span.RecordError(handleErr)
	span.SetStatus(codes.Error, handleErr.Error())

	// A handler cut short by shutdown leaves the message uncommitted for redelivery.
	if parent.Err() != nil {
		c.logger.Info("message handling interrupted, leaving uncommitted",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(handleErr),
		)
		return handleErr
	}

	c.logger.Error("message handling failed, dead-lettering",
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.Error(handleErr),
	)

	if err := c.deadLetter.WriteMessages(ctx, deadLetterOf(msg, handleErr)); err != nil {
		return errors.Join(
			fmt.Errorf("dead-letter %s offset %d: %w", msg.Topic, msg.Offset, err),
			handleErr,
		)
	}
	return nil
}

// deadLetterOf copies msg to its dead-letter topic, recording where it came from and why it failed.
func deadLetterOf(msg kafkago.Message, cause error) kafkago.Message {
	headers := make([]kafkago.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafkago.Header{Key: HeaderOriginalTopic, Value: []byte(msg.Topic)},
		kafkago.Header{Key: HeaderOriginalPartition, Value: []byte(strconv.Itoa(msg.Partition))},
		kafkago.Header{Key: HeaderOriginalOffset, Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafkago.Header{Key: HeaderExceptionMessage, Value: []byte(cause.Error())},
	)

	return kafkago.Message{
		Topic:   msg.Topic + DeadLetterSuffix,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}
}
