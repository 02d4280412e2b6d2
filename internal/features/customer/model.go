package customer

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Customer is a support contact. A customer may belong to a company; tickets
// reference customers by hex id.
type Customer struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID string             `json:"workspace_id" bson:"workspace_id"`
	ClientID    string             `json:"client_id" bson:"client_id"`

	Name      string `json:"name" bson:"name"`
	Email     string `json:"email" bson:"email"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	CompanyID string `json:"company_id,omitempty" bson:"company_id,omitempty"`

	Tags         []string               `json:"tags,omitempty" bson:"tags,omitempty"`
	CustomFields map[string]interface{} `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`

	Deleted   bool      `json:"-" bson:"deleted"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func (c *Customer) Payload() map[string]interface{} {
	return map[string]interface{}{
		"customer": map[string]interface{}{
			"id":         c.ID.Hex(),
			"name":       c.Name,
			"email":      c.Email,
			"phone":      c.Phone,
			"company_id": c.CompanyID,
		},
	}
}
