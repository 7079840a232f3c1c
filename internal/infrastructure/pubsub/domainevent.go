package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/milkrun/milkrun/internal/domain/shared/events"
	"github.com/milkrun/milkrun/internal/shared/logger"
)

const DomainEventChannel = "milkrun:events"

// EventEnvelope is the wire form of a domain event. Payload holds the
// event's own JSON encoding.
type EventEnvelope struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// EventEnvelopeHandler is called for each received event.
type EventEnvelopeHandler func(ctx context.Context, envelope EventEnvelope)

// RedisDomainEventBus publishes domain events on a Redis Pub/Sub channel so
// other processes (notifiers, dashboards) can react to them.
type RedisDomainEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

var _ events.EventPublisher = (*RedisDomainEventBus)(nil)

func NewRedisDomainEventBus(client *redis.Client, logger logger.Interface) *RedisDomainEventBus {
	return &RedisDomainEventBus{
		client:  client,
		channel: DomainEventChannel,
		logger:  logger,
	}
}

func (b *RedisDomainEventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		ID:          uuid.NewString(),
		Type:        event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		OccurredAt:  event.GetOccurredAt(),
		Version:     event.GetVersion(),
		Payload:     payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish domain event",
			"event_type", envelope.Type,
			"aggregate_id", envelope.AggregateID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("domain event published",
		"event_id", envelope.ID,
		"event_type", envelope.Type,
		"aggregate_id", envelope.AggregateID,
	)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for every event.
func (b *RedisDomainEventBus) Subscribe(ctx context.Context, handler EventEnvelopeHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to domain events", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("domain event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("domain event channel closed")
				return nil
			}

			var envelope EventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.logger.Warnw("failed to unmarshal domain event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			handler(ctx, envelope)
		}
	}
}
