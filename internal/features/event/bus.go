package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/fx"
)

const queueBuffer = 128

var errBusClosed = errors.New("event bus is closed")

// Bus is the in-process event fabric. Queues are plain named channels created
// on first use. The bus is constructed once, injected where needed, and torn
// down through its explicit Close — there is no package-level singleton.
type Bus struct {
	mu     sync.Mutex
	queues map[string]chan Message
	done   chan struct{}
	closed bool
}

func NewBus(lc fx.Lifecycle) *Bus {
	b := &Bus{
		queues: make(map[string]chan Message),
		done:   make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			b.Close()
			return nil
		},
	})

	return b
}

// queue initializes the named queue if needed. Safe to call repeatedly.
func (b *Bus) queue(name string) chan Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.queues[name]
	if !ok {
		ch = make(chan Message, queueBuffer)
		b.queues[name] = ch
	}
	return ch
}

// Send places a message on the named queue, honoring its delivery delay.
func (b *Bus) Send(name string, msg Message) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errBusClosed
	}
	b.mu.Unlock()

	ch := b.queue(name)

	if msg.Delay > 0 {
		go func() {
			select {
			case <-time.After(time.Duration(msg.Delay) * time.Millisecond):
			case <-b.done:
				return
			}
			select {
			case ch <- msg:
			case <-b.done:
			}
		}()
		return nil
	}

	select {
	case ch <- msg:
		return nil
	case <-b.done:
		return errBusClosed
	}
}

// Receive returns the named queue's delivery channel.
func (b *Bus) Receive(name string) <-chan Message {
	return b.queue(name)
}

// Done is closed when the bus shuts down.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}
