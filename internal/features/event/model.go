package event

import (
	"context"
	"time"
)

// Message is the wire shape carried between a publisher and a consumer.
// Event keeps the original trigger id and is the dispatch key; EventType is
// the canonical dotted name resolved from the trigger catalog.
type Message struct {
	Event      string                 `json:"event"`
	EventType  string                 `json:"event_type"`
	EntityType string                 `json:"entity_type,omitempty"`
	At         time.Time              `json:"at"`
	Data       map[string]interface{} `json:"data"`
	Delay      int64                  `json:"delay"`
}

// Handler processes one message's payload. Handlers must tolerate
// at-least-once delivery.
type Handler func(ctx context.Context, data map[string]interface{}) (interface{}, error)
