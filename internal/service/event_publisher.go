package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// DomainEvent notification emitted after a transaction commits.
type DomainEvent struct {
	Type       string         `json:"type"`
	CompanyID  string         `json:"company_id"`
	WorkerID   string         `json:"worker_id"`
	EntityID   string         `json:"entity_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// EventPublisher delivers domain events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, evt DomainEvent) error
}

// channelPublisher is the subset of the Redis client used for pub/sub.
type channelPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type redisEventPublisher struct {
	client  channelPublisher
	channel string
}

// NewRedisEventPublisher publishes JSON-encoded events on a Redis channel.
func NewRedisEventPublisher(client channelPublisher, channel string) EventPublisher {
	return &redisEventPublisher{client: client, channel: channel}
}

func (p *redisEventPublisher) Publish(ctx context.Context, evt DomainEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload)
}

// logEventPublisher is used when Redis is not configured.
type logEventPublisher struct {
	logger *zap.Logger
}

func (p *logEventPublisher) Publish(_ context.Context, evt DomainEvent) error {
	p.logger.Info("domain event",
		zap.String("event_type", evt.Type),
		zap.String("company_id", evt.CompanyID),
		zap.String("worker_id", evt.WorkerID),
		zap.String("entity_id", evt.EntityID))
	return nil
}

// dispatchEvents publishes events in the background. Failures are logged, never returned.
func dispatchEvents(ctx context.Context, publisher EventPublisher, logger *zap.Logger, events ...DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		for _, evt := range events {
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			err := publisher.Publish(pubCtx, evt)
			cancel()
			if err != nil {
				logger.Warn("publish domain event failed",
					zap.String("event_type", evt.Type),
					zap.String("company_id", evt.CompanyID),
					zap.String("worker_id", evt.WorkerID),
					zap.Error(err))
			}
		}
	}()
}
