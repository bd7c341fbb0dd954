// Package kafka publishes saga requests and notifications to Kafka topics.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"orderservice/internal/core/application/messages"
	"orderservice/internal/pkg/telemetry"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Writer is the part of *kafka.Writer the publisher uses. The writer must not have
// a Topic configured since each message names its own.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Topics names the outbound topics.
type Topics struct {
	ValidateOrder     string
	AllocateOrder     string
	AllocationFailure string
	DeallocateOrder   string
}

// Publisher implements ports.MessagePublisher.
type Publisher struct {
	writer Writer
	topics Topics
	logger *zap.Logger
}

func NewPublisher(writer Writer, topics Topics, logger *zap.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		topics: topics,
		logger: logger.With(zap.String("component", "kafka-publisher")),
	}
}

func (p *Publisher) PublishValidateOrder(ctx context.Context, req messages.ValidateOrderRequest) error {
	return p.publish(ctx, p.topics.ValidateOrder, req.Order.ID, req)
}

func (p *Publisher) PublishAllocateOrder(ctx context.Context, req messages.AllocateOrderRequest) error {
	return p.publish(ctx, p.topics.AllocateOrder, req.Order.ID, req)
}

func (p *Publisher) PublishAllocationFailure(ctx context.Context, evt messages.AllocationFailureEvent) error {
	return p.publish(ctx, p.topics.AllocationFailure, evt.OrderID, evt)
}

func (p *Publisher) PublishDeallocateOrder(ctx context.Context, req messages.DeallocateOrderRequest) error {
	return p.publish(ctx, p.topics.DeallocateOrder, req.Order.ID, req)
}

func (p *Publisher) publish(ctx context.Context, topic string, orderID uuid.UUID, payload any) error {
	ctx, span := telemetry.Tracer().Start(ctx, topic+" publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", topic),
			attribute.String("order.id", orderID.String()),
		),
	)
	defer span.End()

	value, err := json.Marshal(payload)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("marshal %s message: %w", topic, err)
	}

	var headers telemetry.KafkaHeaderCarrier
	otel.GetTextMapPropagator().Inject(ctx, &headers)

	msg := kafkago.Message{
		Topic:   topic,
		Key:     []byte(orderID.String()),
		Value:   value,
		Headers: headers,
	}
	if err = p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish message",
			zap.String("topic", topic),
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.Debug("message published",
		zap.String("topic", topic),
		zap.String("order_id", orderID.String()),
	)
	return nil
}
