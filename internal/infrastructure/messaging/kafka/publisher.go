package kafka

import (
	"context"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
)

// EventRecorder observes publish outcomes.
type EventRecorder interface {
	RecordEvent(eventType string, err error)
}

// keyed events choose their partition key.
type keyed interface {
	EventKey() string
}

// EventPublisher publishes domain events as envelopes on the topic named
// after the event type.
type EventPublisher struct {
	producer *Producer
	prefix   string
	logger   logging.Logger
	metrics  EventRecorder
}

// NewEventPublisher returns a material.EventPublisher. metrics may be nil.
func NewEventPublisher(p *Producer, topicPrefix string, logger logging.Logger, metrics EventRecorder) *EventPublisher {
	return &EventPublisher{producer: p, prefix: topicPrefix, logger: orNop(logger), metrics: metrics}
}

var _ material.EventPublisher = (*EventPublisher)(nil)

func (p *EventPublisher) Publish(ctx context.Context, event material.DomainEvent) error {
	err := p.publish(ctx, event)
	if p.metrics != nil {
		p.metrics.RecordEvent(event.EventType(), err)
	}
	if err != nil {
		p.logger.Warn("failed to publish event", logging.String("event_type", event.EventType()), logging.Err(err))
	}
	return err
}

func (p *EventPublisher) publish(ctx context.Context, event material.DomainEvent) error {
	env, err := NewEventEnvelope(event.EventType(), event)
	if err != nil {
		return err
	}
	var key []byte
	if k, ok := event.(keyed); ok {
		key = []byte(k.EventKey())
	}
	msg, err := env.ToMessage(p.prefix+event.EventType(), key)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, material.DomainEvent) error { return nil }
