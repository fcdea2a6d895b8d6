// Package messaging publishes order lifecycle events to Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurante/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of kafka.Writer used by the publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventPublisher writes order events as JSON, keyed by order id so every event of
// one order lands on the same partition.
type OrderEventPublisher struct {
	writer  MessageWriter
	timeout time.Duration
	logger  zerolog.Logger
}

// NewKafkaWriter builds a writer for topic with hash partitioning on the message key.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// NewOrderEventPublisher wraps writer.
func NewOrderEventPublisher(writer MessageWriter, logger zerolog.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{
		writer:  writer,
		timeout: 5 * time.Second,
		logger:  logger.With().Str("component", "order-events").Logger(),
	}
}

// Publish implements order.EventPublisher.
func (p *OrderEventPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s for order %s: %w", event.Type, event.OrderID, err)
	}

	p.logger.Debug().
		Str("event", event.Type).
		Str("order_id", event.OrderID.String()).
		Str("status", string(event.Status)).
		Msg("order event published")
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
