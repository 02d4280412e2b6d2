package event

import (
	"context"
	"time"

	"go-desk/internal/features/trigger"

	"go.uber.org/zap"
)

// Publisher emits domain events onto one named queue. Publishing is always
// best-effort: a failure is logged and swallowed so the caller's primary
// business transaction never fails because the event fabric is down.
type Publisher struct {
	bus   *Bus
	queue string
	log   *zap.Logger
}

func NewPublisher(bus *Bus, queue string, log *zap.Logger) *Publisher {
	return &Publisher{
		bus:   bus,
		queue: queue,
		log:   log,
	}
}

// Publish enriches the outgoing message from the trigger catalog when the
// trigger is known; otherwise the raw id passes through as the event type.
func (p *Publisher) Publish(ctx context.Context, triggerID string, data map[string]interface{}) {
	p.PublishDelayed(ctx, triggerID, data, 0)
}

func (p *Publisher) PublishDelayed(_ context.Context, triggerID string, data map[string]interface{}, delayMs int64) {
	msg := Message{
		Event:     triggerID,
		EventType: triggerID,
		At:        time.Now().UTC(),
		Data:      data,
		Delay:     delayMs,
	}

	if t := trigger.GetTriggerByID(triggerID); t != nil {
		msg.EventType = t.EventType
		msg.EntityType = t.EntityType
	}

	if err := p.bus.Send(p.queue, msg); err != nil {
		p.log.Error("failed to publish event",
			zap.String("queue", p.queue),
			zap.String("event", triggerID),
			zap.Error(err))
	}
}
