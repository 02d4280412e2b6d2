package event

import (
	"context"
	"fmt"

	"go-desk/internal/common/errs"

	"go.uber.org/zap"
)

// Consumer dispatches queue messages to per-event handlers. The handler table
// is copied at construction and immutable afterwards.
type Consumer struct {
	bus      *Bus
	queue    string
	handlers map[string]Handler
	log      *zap.Logger
}

func NewConsumer(bus *Bus, queue string, handlers map[string]Handler, log *zap.Logger) *Consumer {
	table := make(map[string]Handler, len(handlers))
	for k, v := range handlers {
		table[k] = v
	}
	return &Consumer{
		bus:      bus,
		queue:    queue,
		handlers: table,
		log:      log,
	}
}

// Start binds to the queue and processes messages until the bus closes or the
// context is cancelled. Each delivery is dispatched on its own goroutine: a
// hung handler stalls only its own message, never the queue's next delivery.
// No ordering is guaranteed across messages.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		deliveries := c.bus.Receive(c.queue)
		for {
			select {
			case msg := <-deliveries:
				go func(msg Message) {
					if _, err := c.ProcessMessage(ctx, msg); err != nil {
						c.log.Error("message processing failed",
							zap.String("queue", c.queue),
							zap.String("event", msg.Event),
							zap.Error(err))
					}
				}(msg)
			case <-c.bus.Done():
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// ProcessMessage routes one message. An event with no registered handler is a
// hard error surfaced to the transport's retry/dead-letter policy; a handler
// failure is wrapped and rethrown for the same reason.
func (c *Consumer) ProcessMessage(ctx context.Context, msg Message) (interface{}, error) {
	handler, ok := c.handlers[msg.Event]
	if !ok {
		return nil, &errs.UnhandledEventError{Event: msg.Event, Queue: c.queue}
	}

	result, err := handler(ctx, msg.Data)
	if err != nil {
		return nil, fmt.Errorf("handler for event %q failed: %w", msg.Event, err)
	}
	return result, nil
}
