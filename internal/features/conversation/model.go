package conversation

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageKind distinguishes customer-visible replies from internal notes.
type MessageKind string

const (
	MessageKindText MessageKind = "text"
	MessageKindNote MessageKind = "note"
)

// UserType identifies who authored a message. Workflow-authored messages are
// stamped so automations can be told apart from humans in the thread.
type UserType string

const (
	UserTypeAgent    UserType = "agent"
	UserTypeCustomer UserType = "customer"
	UserTypeWorkflow UserType = "workflow"
)

// ConversationMessage is one entry in a ticket's thread.
type ConversationMessage struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TicketID    primitive.ObjectID `json:"ticket_id" bson:"ticket_id"`
	WorkspaceID string             `json:"workspace_id" bson:"workspace_id"`
	ClientID    string             `json:"client_id" bson:"client_id"`

	Kind     MessageKind `json:"kind" bson:"kind"`
	UserType UserType    `json:"user_type" bson:"user_type"`
	AuthorID string      `json:"author_id,omitempty" bson:"author_id,omitempty"`
	Body     string      `json:"body" bson:"body"`

	Deleted   bool      `json:"-" bson:"deleted"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Payload shapes the message for event publishing. The ticket id rides along
// so the fact resolver can re-read the current ticket state.
func (m *ConversationMessage) Payload() map[string]interface{} {
	return map[string]interface{}{
		"ticket": map[string]interface{}{
			"id": m.TicketID.Hex(),
		},
		"message": map[string]interface{}{
			"id":        m.ID.Hex(),
			"kind":      string(m.Kind),
			"user_type": string(m.UserType),
			"body":      m.Body,
		},
	}
}
