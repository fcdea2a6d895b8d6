package order

import (
	"context"

	"restaurante/internal/model"
)

// EventPublisher receives order lifecycle events after they are applied.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(context.Context, model.OrderEvent) error { return nil }
