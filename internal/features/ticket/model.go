package ticket

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusNew      TicketStatus = "new"
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusPending  TicketStatus = "pending"
	TicketStatusResolved TicketStatus = "resolved"
	TicketStatusClosed   TicketStatus = "closed"
)

// TicketPriority represents the priority level of a ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketChannel represents the channel through which the ticket was created
type TicketChannel string

const (
	TicketChannelEmail    TicketChannel = "email"
	TicketChannelChat     TicketChannel = "chat"
	TicketChannelPortal   TicketChannel = "portal"
	TicketChannelPhone    TicketChannel = "phone"
	TicketChannelWorkflow TicketChannel = "workflow"
)

// Ticket represents a customer support ticket. Sno is a per-workspace
// sequential number used in update_ticket automations; CustomFields is keyed
// by custom-field definition id (a UUID string).
type Ticket struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sno         int64              `json:"sno" bson:"sno"`
	WorkspaceID string             `json:"workspace_id" bson:"workspace_id"`
	ClientID    string             `json:"client_id" bson:"client_id"`

	Subject     string        `json:"subject" bson:"subject"`
	Description string        `json:"description" bson:"description"`
	Channel     TicketChannel `json:"channel" bson:"channel"`

	Status   TicketStatus   `json:"status" bson:"status"`
	Priority TicketPriority `json:"priority" bson:"priority"`

	CustomerID string `json:"customer_id,omitempty" bson:"customer_id,omitempty"`
	CompanyID  string `json:"company_id,omitempty" bson:"company_id,omitempty"`
	AssigneeID string `json:"assignee_id,omitempty" bson:"assignee_id,omitempty"`
	TeamID     string `json:"team_id,omitempty" bson:"team_id,omitempty"`

	Tags         []string               `json:"tags,omitempty" bson:"tags,omitempty"`
	CustomFields map[string]interface{} `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`

	DueDate *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`

	CreatedBy       string `json:"created_by" bson:"created_by"`
	TicketCreatedBy string `json:"ticket_created_by" bson:"ticket_created_by"`

	Deleted   bool       `json:"-" bson:"deleted"`
	DeletedAt *time.Time `json:"-" bson:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Payload shapes the ticket for event publishing. Rule fields and placeholder
// names resolve against these keys.
func (t *Ticket) Payload() map[string]interface{} {
	return map[string]interface{}{
		"ticket": map[string]interface{}{
			"id":            t.ID.Hex(),
			"sno":           t.Sno,
			"subject":       t.Subject,
			"status":        string(t.Status),
			"priority":      string(t.Priority),
			"channel":       string(t.Channel),
			"customer_id":   t.CustomerID,
			"company_id":    t.CompanyID,
			"assignee_id":   t.AssigneeID,
			"team_id":       t.TeamID,
			"custom_fields": t.CustomFields,
		},
	}
}
