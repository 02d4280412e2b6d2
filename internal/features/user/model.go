package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an agent or admin within a workspace.
type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkspaceID string             `json:"workspace_id" bson:"workspace_id"`
	ClientID    string             `json:"client_id" bson:"client_id"`

	Name   string   `json:"name" bson:"name"`
	Email  string   `json:"email" bson:"email"`
	Roles  []string `json:"roles" bson:"roles"`
	Active bool     `json:"active" bson:"active"`

	Deleted   bool      `json:"-" bson:"deleted"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Team groups agents for assignment and notification fan-out.
type Team struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	WorkspaceID string               `json:"workspace_id" bson:"workspace_id"`
	ClientID    string               `json:"client_id" bson:"client_id"`
	Name        string               `json:"name" bson:"name"`
	MemberIDs   []primitive.ObjectID `json:"member_ids" bson:"member_ids"`

	Deleted   bool      `json:"-" bson:"deleted"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
