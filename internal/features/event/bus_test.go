package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-desk/internal/common/errs"
	"go-desk/internal/features/trigger"

	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	lc := fxtest.NewLifecycle(t)
	bus := NewBus(lc)
	t.Cleanup(bus.Close)
	return bus
}

func receiveOne(t *testing.T, bus *Bus, queue string) Message {
	t.Helper()
	select {
	case msg := <-bus.Receive(queue):
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestPublishEnrichesKnownTrigger(t *testing.T) {
	bus := newTestBus(t)
	pub := NewPublisher(bus, "ticket_events", zap.NewNop())

	pub.Publish(context.Background(), trigger.TicketCreated, map[string]interface{}{"k": "v"})

	msg := receiveOne(t, bus, "ticket_events")
	if msg.Event != trigger.TicketCreated {
		t.Errorf("Event = %q, want %q", msg.Event, trigger.TicketCreated)
	}
	if msg.EventType != "ticket.created" {
		t.Errorf("EventType = %q, want ticket.created", msg.EventType)
	}
	if msg.EntityType != "ticket" {
		t.Errorf("EntityType = %q, want ticket", msg.EntityType)
	}
	if msg.At.IsZero() {
		t.Error("At should be stamped")
	}
}

func TestPublishUnknownTriggerPassesThrough(t *testing.T) {
	bus := newTestBus(t)
	pub := NewPublisher(bus, "ticket_events", zap.NewNop())

	pub.Publish(context.Background(), "custom_event", nil)

	msg := receiveOne(t, bus, "ticket_events")
	if msg.Event != "custom_event" {
		t.Errorf("Event = %q, want custom_event", msg.Event)
	}
	if msg.EventType != "custom_event" {
		t.Errorf("EventType = %q, want raw id passthrough", msg.EventType)
	}
	if msg.EntityType != "" {
		t.Errorf("EntityType = %q, want empty", msg.EntityType)
	}
}

func TestPublishDelayedDelivers(t *testing.T) {
	bus := newTestBus(t)
	pub := NewPublisher(bus, "ticket_events", zap.NewNop())

	start := time.Now()
	pub.PublishDelayed(context.Background(), trigger.TicketCreated, nil, 50)

	msg := receiveOne(t, bus, "ticket_events")
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("message arrived after %v, want at least 50ms", elapsed)
	}
	if msg.Delay != 50 {
		t.Errorf("Delay = %d, want 50", msg.Delay)
	}
}

func TestPublishAfterCloseDoesNotPanic(t *testing.T) {
	bus := newTestBus(t)
	pub := NewPublisher(bus, "ticket_events", zap.NewNop())

	bus.Close()
	// Best-effort: the failure is swallowed and logged.
	pub.Publish(context.Background(), trigger.TicketCreated, nil)
}

func TestProcessMessageDispatchesToHandler(t *testing.T) {
	bus := newTestBus(t)
	handlers := map[string]Handler{
		"ping": func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			return data["value"], nil
		},
	}
	c := NewConsumer(bus, "q", handlers, zap.NewNop())

	result, err := c.ProcessMessage(context.Background(), Message{
		Event: "ping",
		Data:  map[string]interface{}{"value": 42},
	})
	if err != nil {
		t.Fatalf("ProcessMessage returned error: %v", err)
	}
	if result != 42 {
		t.Errorf("result = %v, want 42", result)
	}
}

func TestProcessMessageUnroutableEventIsFatal(t *testing.T) {
	bus := newTestBus(t)
	c := NewConsumer(bus, "q", nil, zap.NewNop())

	_, err := c.ProcessMessage(context.Background(), Message{Event: "nope"})
	if err == nil {
		t.Fatal("want error for unroutable event")
	}
	var unhandled *errs.UnhandledEventError
	if !errors.As(err, &unhandled) {
		t.Fatalf("want UnhandledEventError, got %T", err)
	}
	if unhandled.Event != "nope" || unhandled.Queue != "q" {
		t.Errorf("got %+v, want event nope on queue q", unhandled)
	}
}

func TestProcessMessageWrapsHandlerError(t *testing.T) {
	bus := newTestBus(t)
	sentinel := errors.New("boom")
	handlers := map[string]Handler{
		"ping": func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			return nil, sentinel
		},
	}
	c := NewConsumer(bus, "q", handlers, zap.NewNop())

	_, err := c.ProcessMessage(context.Background(), Message{Event: "ping"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("want wrapped handler error, got %v", err)
	}
}

func TestConsumerStartProcessesQueue(t *testing.T) {
	bus := newTestBus(t)
	got := make(chan string, 1)
	handlers := map[string]Handler{
		"hello": func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			got <- data["who"].(string)
			return nil, nil
		},
	}
	c := NewConsumer(bus, "q", handlers, zap.NewNop())
	c.Start(context.Background())

	if err := bus.Send("q", Message{Event: "hello", Data: map[string]interface{}{"who": "world"}}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case who := <-got:
		if who != "world" {
			t.Errorf("handler saw %q, want world", who)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestConsumerHungHandlerDoesNotBlockQueue(t *testing.T) {
	bus := newTestBus(t)
	release := make(chan struct{})
	fastDone := make(chan struct{}, 1)
	handlers := map[string]Handler{
		"slow": func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			<-release
			return nil, nil
		},
		"fast": func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			fastDone <- struct{}{}
			return nil, nil
		},
	}
	c := NewConsumer(bus, "q", handlers, zap.NewNop())
	c.Start(context.Background())

	if err := bus.Send("q", Message{Event: "slow"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := bus.Send("q", Message{Event: "fast"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case <-fastDone:
	case <-time.After(2 * time.Second):
		t.Fatal("fast message was not processed while the slow handler was stalled")
	}
	close(release)
}
