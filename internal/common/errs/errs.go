package errs

import (
	"errors"
	"fmt"
)

// Authoring-time errors are strict and surfaced to the admin API. Runtime
// automation errors are logged and swallowed at their local scope.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError describes one rejected row of a batch write. Position refers
// to the row's index in the submitted batch.
type ValidationError struct {
	Position int                    `json:"position"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Message  string                 `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at position %d: %s", e.Position, e.Message)
}

// UnhandledEventError is returned when a consumer receives a message for an
// event it has no handler for. Unlike publish failures this is fatal for the
// message so the transport can apply its redelivery policy.
type UnhandledEventError struct {
	Event string
	Queue string
}

func (e *UnhandledEventError) Error() string {
	return fmt.Sprintf("unhandled event %q on queue %q", e.Event, e.Queue)
}
