package company

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Company groups customers under one account.
type Company struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID string             `json:"workspace_id" bson:"workspace_id"`
	ClientID    string             `json:"client_id" bson:"client_id"`

	Name     string `json:"name" bson:"name"`
	Domain   string `json:"domain,omitempty" bson:"domain,omitempty"`
	Industry string `json:"industry,omitempty" bson:"industry,omitempty"`
	Plan     string `json:"plan,omitempty" bson:"plan,omitempty"`

	CustomFields map[string]interface{} `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`

	Deleted   bool      `json:"-" bson:"deleted"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (c *Company) Payload() map[string]interface{} {
	return map[string]interface{}{
		"company": map[string]interface{}{
			"id":       c.ID.Hex(),
			"name":     c.Name,
			"domain":   c.Domain,
			"industry": c.Industry,
			"plan":     c.Plan,
		},
	}
}
