package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	EmailQueued EmailStatus = "queued"
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// Email is the delivery log for one outbound message. Every send attempt is
// recorded regardless of outcome.
type Email struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	From         string             `json:"from" bson:"from"`
	To           []string           `json:"to" bson:"to"`
	Subject      string             `json:"subject" bson:"subject"`
	HtmlBody     string             `json:"htmlBody" bson:"htmlBody"`
	Status       EmailStatus        `json:"status" bson:"status"`
	ErrorMessage string             `json:"errorMessage,omitempty" bson:"errorMessage,omitempty"`
	SentAt       *time.Time         `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
