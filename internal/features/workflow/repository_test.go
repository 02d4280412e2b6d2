package workflow

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWorkflowUpdateDocOmitsImmutableFields(t *testing.T) {
	wf := &Workflow{
		ID:          primitive.NewObjectID(),
		WorkspaceID: "ws1",
		ClientID:    "cl1",
		Name:        "renamed",
		Status:      StatusInactive,
		Position:    3,
		AlwaysRun:   true,
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"high"}},
			},
		}},
		ActionIDs: []primitive.ObjectID{primitive.NewObjectID()},
		UpdatedAt: time.Now(),
	}

	doc := workflowUpdateDoc(wf)

	for _, key := range []string{"_id", "created_at", "created_by", "workspace_id", "client_id", "deleted"} {
		if _, present := doc[key]; present {
			t.Errorf("update doc must not carry %q", key)
		}
	}

	for _, key := range []string{"name", "status", "position", "always_run", "rules", "action_ids", "updated_at"} {
		if _, present := doc[key]; !present {
			t.Errorf("update doc is missing mutable field %q", key)
		}
	}
	if doc["name"] != "renamed" || doc["status"] != StatusInactive {
		t.Errorf("update doc carries stale values: %+v", doc)
	}
}
