package workflow

import (
	"time"

	"go-desk/internal/common/errs"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkflowStatus string

const (
	StatusActive   WorkflowStatus = "active"
	StatusInactive WorkflowStatus = "inactive"
	StatusOutdated WorkflowStatus = "outdated"
)

type MatchType string

const (
	MatchAll MatchType = "all"
	MatchAny MatchType = "any"
)

type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorGreaterThan Operator = "gt"
	OperatorLessThan    Operator = "lt"
	OperatorGTE         Operator = "gte"
	OperatorLTE         Operator = "lte"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
	OperatorBetween     Operator = "between"
	OperatorStartsWith  Operator = "starts_with"
	OperatorEndsWith    Operator = "ends_with"
)

type ActionType string

const (
	ActionCreateTicket         ActionType = "create_ticket"
	ActionUpdateTicket         ActionType = "update_ticket"
	ActionReplyToCustomer      ActionType = "reply_to_customer"
	ActionAddNote              ActionType = "add_note"
	ActionInternalNotification ActionType = "internal_notification"
	ActionSendEmail            ActionType = "send_email"
	ActionRunScript            ActionType = "run_script"
)

// RuleProperty is one condition: a fact field, an operator, and the comparison
// value. A Resource that parses as a UUID denotes a custom-field lookup rather
// than a built-in fact field. Value is always an array; scalar operators use
// its first element.
type RuleProperty struct {
	Resource string        `json:"resource" bson:"resource"`
	Field    string        `json:"field" bson:"field"`
	Operator Operator      `json:"operator" bson:"operator"`
	Value    []interface{} `json:"value" bson:"value"`
}

type WorkflowRule struct {
	ID         string         `json:"id" bson:"id"`
	MatchType  MatchType      `json:"match_type" bson:"match_type"`
	Properties []RuleProperty `json:"properties" bson:"properties"`
}

type WorkflowAction struct {
	ID               primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	WorkspaceID      string                 `json:"workspace_id" bson:"workspace_id"`
	ClientID         string                 `json:"client_id" bson:"client_id"`
	Name             string                 `json:"name" bson:"name"`
	Type             ActionType             `json:"type" bson:"type"`
	Position         int                    `json:"position" bson:"position"`
	Attributes       map[string]interface{} `json:"attributes" bson:"attributes"`
	CustomAttributes map[string]interface{} `json:"custom_attributes,omitempty" bson:"custom_attributes,omitempty"`
	CreatedBy        string                 `json:"created_by" bson:"created_by"`
	Deleted          bool                   `json:"-" bson:"deleted"`
	CreatedAt        time.Time              `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at" bson:"updated_at"`
}

// Workflow is a tenant-owned automation definition. A workflow with no rules
// only fires when AlwaysRun is set explicitly; empty rules alone never mean
// "unconditional".
type Workflow struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	WorkspaceID string               `json:"workspace_id" bson:"workspace_id"`
	ClientID    string               `json:"client_id" bson:"client_id"`
	Name        string               `json:"name" bson:"name"`
	Status      WorkflowStatus       `json:"status" bson:"status"`
	Position    int                  `json:"position" bson:"position"`
	AlwaysRun   bool                 `json:"always_run" bson:"always_run"`
	Rules       []WorkflowRule       `json:"rules" bson:"rules"`
	ActionIDs   []primitive.ObjectID `json:"action_ids" bson:"action_ids"`
	Actions     []WorkflowAction     `json:"actions,omitempty" bson:"-"`
	CreatedBy   string               `json:"created_by" bson:"created_by"`
	Deleted     bool                 `json:"-" bson:"deleted"`
	DeletedAt   *time.Time           `json:"-" bson:"deleted_at,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}

// EventWorkflow binds a catalog trigger to a workflow within one tenant.
// The quadruple (event, workflow, workspace, client) is unique.
type EventWorkflow struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	EventID     string             `json:"event_id" bson:"event_id"`
	WorkflowID  primitive.ObjectID `json:"workflow_id" bson:"workflow_id"`
	WorkspaceID string             `json:"workspace_id" bson:"workspace_id"`
	ClientID    string             `json:"client_id" bson:"client_id"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Facts is the bundle the matcher and executor operate over, keyed by
// resource name (ticket, customer, company).
type Facts map[string]map[string]interface{}

// ActionBatchResult reports a bulk action upsert. Errors carries every
// validation failure across the batch; nothing is written unless it is empty.
type ActionBatchResult struct {
	ActionIDs []string               `json:"actionIds"`
	Errors    []errs.ValidationError `json:"error"`
}
