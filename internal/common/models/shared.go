package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	WorkspaceIDKey ContextKey = "workspace_id"
	ClientIDKey    ContextKey = "client_id"
)

// Scope identifies the tenant every stored entity belongs to. All reads and
// writes in the workflow subsystem are constrained to one scope.
type Scope struct {
	WorkspaceID string `json:"workspace_id" bson:"workspace_id"`
	ClientID    string `json:"client_id" bson:"client_id"`
}

func (s Scope) IsZero() bool {
	return s.WorkspaceID == "" && s.ClientID == ""
}

type AuditAction string

const (
	AuditActionCreate   AuditAction = "CREATE"
	AuditActionUpdate   AuditAction = "UPDATE"
	AuditActionDelete   AuditAction = "DELETE"
	AuditActionWorkflow AuditAction = "WORKFLOW"
	AuditActionNotify   AuditAction = "NOTIFY"
	AuditActionSync     AuditAction = "SYNC"
	AuditActionCron     AuditAction = "CRON"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkspaceID string             `bson:"workspace_id,omitempty" json:"workspace_id,omitempty"`
	ClientID    string             `bson:"client_id,omitempty" json:"client_id,omitempty"`
	Action      AuditAction        `bson:"action" json:"action"`
	Module      string             `bson:"module" json:"module"`
	RecordID    string             `bson:"record_id" json:"record_id"`
	ActorID     string             `bson:"actor_id" json:"actor_id"`
	Changes     map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// Log is the shape persisted by the async zap DB writer.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	AppId        string    `bson:"app_id" json:"app_id"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
