package workflow

import (
	"context"
	"strings"
	"testing"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeWorkflowRepo is an in-memory WorkflowRepository for service tests.
type fakeWorkflowRepo struct {
	workflows map[string]Workflow
	actions   map[string]WorkflowAction
	links     []EventWorkflow

	insertedActions int
	updatedActions  int
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{
		workflows: make(map[string]Workflow),
		actions:   make(map[string]WorkflowAction),
	}
}

func (f *fakeWorkflowRepo) CreateWorkflow(_ context.Context, wf *Workflow) error {
	wf.ID = primitive.NewObjectID()
	f.workflows[wf.ID.Hex()] = *wf
	return nil
}

func (f *fakeWorkflowRepo) GetWorkflow(_ context.Context, id string, _ common_models.Scope) (*Workflow, error) {
	wf, ok := f.workflows[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &wf, nil
}

func (f *fakeWorkflowRepo) ListWorkflows(_ context.Context, _ common_models.Scope) ([]Workflow, error) {
	var out []Workflow
	for _, wf := range f.workflows {
		out = append(out, wf)
	}
	return out, nil
}

func (f *fakeWorkflowRepo) UpdateWorkflow(_ context.Context, wf *Workflow) error {
	if _, ok := f.workflows[wf.ID.Hex()]; !ok {
		return errs.ErrNotFound
	}
	f.workflows[wf.ID.Hex()] = *wf
	return nil
}

func (f *fakeWorkflowRepo) SoftDeleteWorkflow(_ context.Context, id string, _ common_models.Scope) error {
	if _, ok := f.workflows[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.workflows, id)
	return nil
}

func (f *fakeWorkflowRepo) GetWorkflowsByIDs(_ context.Context, ids []primitive.ObjectID, _ common_models.Scope) ([]Workflow, error) {
	var out []Workflow
	for _, id := range ids {
		if wf, ok := f.workflows[id.Hex()]; ok {
			out = append(out, wf)
		}
	}
	return out, nil
}

func (f *fakeWorkflowRepo) CreateEventWorkflow(_ context.Context, ew *EventWorkflow) error {
	for _, existing := range f.links {
		if existing.EventID == ew.EventID && existing.WorkflowID == ew.WorkflowID &&
			existing.WorkspaceID == ew.WorkspaceID && existing.ClientID == ew.ClientID {
			return errs.ErrAlreadyExists
		}
	}
	ew.ID = primitive.NewObjectID()
	f.links = append(f.links, *ew)
	return nil
}

func (f *fakeWorkflowRepo) UpdateEventWorkflow(_ context.Context, ew *EventWorkflow) error {
	for _, existing := range f.links {
		if existing.ID != ew.ID && existing.EventID == ew.EventID && existing.WorkflowID == ew.WorkflowID &&
			existing.WorkspaceID == ew.WorkspaceID && existing.ClientID == ew.ClientID {
			return errs.ErrAlreadyExists
		}
	}
	for i, link := range f.links {
		if link.ID == ew.ID {
			f.links[i] = *ew
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeWorkflowRepo) DeleteEventWorkflow(_ context.Context, id string, _ common_models.Scope) error {
	for i, link := range f.links {
		if link.ID.Hex() == id {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeWorkflowRepo) ListEventWorkflows(_ context.Context, eventID string, scope common_models.Scope) ([]EventWorkflow, error) {
	var out []EventWorkflow
	for _, link := range f.links {
		if link.EventID == eventID && link.WorkspaceID == scope.WorkspaceID && link.ClientID == scope.ClientID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (f *fakeWorkflowRepo) InsertActions(_ context.Context, actions []*WorkflowAction) error {
	for _, a := range actions {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		f.actions[a.ID.Hex()] = *a
		f.insertedActions++
	}
	return nil
}

func (f *fakeWorkflowRepo) UpdateAction(_ context.Context, a *WorkflowAction) error {
	if _, ok := f.actions[a.ID.Hex()]; !ok {
		return errs.ErrNotFound
	}
	f.actions[a.ID.Hex()] = *a
	f.updatedActions++
	return nil
}

func (f *fakeWorkflowRepo) SoftDeleteAction(_ context.Context, id string, _ common_models.Scope) error {
	if _, ok := f.actions[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.actions, id)
	return nil
}

func (f *fakeWorkflowRepo) GetActionsByIDs(_ context.Context, ids []primitive.ObjectID, _ common_models.Scope) ([]WorkflowAction, error) {
	var out []WorkflowAction
	for _, id := range ids {
		if a, ok := f.actions[id.Hex()]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeWorkflowRepo) ActionNameExists(_ context.Context, name, clientID string, exclude []primitive.ObjectID) (bool, error) {
	excluded := make(map[string]bool)
	for _, id := range exclude {
		excluded[id.Hex()] = true
	}
	for id, a := range f.actions {
		if excluded[id] {
			continue
		}
		if a.ClientID == clientID && strings.EqualFold(a.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

var testScope = common_models.Scope{WorkspaceID: "ws1", ClientID: "cl1"}

func TestCreateEventWorkflowRejectsDuplicateLink(t *testing.T) {
	repo := newFakeWorkflowRepo()
	svc := NewWorkflowService(repo, nil)

	wfID := primitive.NewObjectID()
	link := &EventWorkflow{EventID: "ticket_created", WorkflowID: wfID, WorkspaceID: "ws1", ClientID: "cl1"}
	if err := svc.CreateEventWorkflow(context.Background(), link); err != nil {
		t.Fatalf("first link: %v", err)
	}

	dup := &EventWorkflow{EventID: "ticket_created", WorkflowID: wfID, WorkspaceID: "ws1", ClientID: "cl1"}
	if err := svc.CreateEventWorkflow(context.Background(), dup); err != errs.ErrAlreadyExists {
		t.Fatalf("duplicate link error = %v, want ErrAlreadyExists", err)
	}

	// Same workflow on a different event is allowed.
	other := &EventWorkflow{EventID: "ticket_closed", WorkflowID: wfID, WorkspaceID: "ws1", ClientID: "cl1"}
	if err := svc.CreateEventWorkflow(context.Background(), other); err != nil {
		t.Fatalf("different event link: %v", err)
	}
}

func TestLoadWorkflowsForTriggerEmptyIsNotAnError(t *testing.T) {
	svc := NewWorkflowService(newFakeWorkflowRepo(), nil)

	workflows, err := svc.LoadWorkflowsForTrigger(context.Background(), "ticket_created", testScope)
	if err != nil {
		t.Fatalf("LoadWorkflowsForTrigger: %v", err)
	}
	if workflows == nil || len(workflows) != 0 {
		t.Errorf("want empty slice, got %v", workflows)
	}
}

func TestLoadWorkflowsForTriggerPopulatesActions(t *testing.T) {
	repo := newFakeWorkflowRepo()
	svc := NewWorkflowService(repo, nil)

	action := &WorkflowAction{Name: "notify", Type: ActionSendEmail, ClientID: "cl1"}
	if err := repo.InsertActions(context.Background(), []*WorkflowAction{action}); err != nil {
		t.Fatal(err)
	}

	wf := &Workflow{Name: "escalate", WorkspaceID: "ws1", ClientID: "cl1", Status: StatusActive, ActionIDs: []primitive.ObjectID{action.ID}}
	if err := repo.CreateWorkflow(context.Background(), wf); err != nil {
		t.Fatal(err)
	}
	if err := svc.CreateEventWorkflow(context.Background(), &EventWorkflow{
		EventID: "ticket_created", WorkflowID: wf.ID, WorkspaceID: "ws1", ClientID: "cl1",
	}); err != nil {
		t.Fatal(err)
	}

	workflows, err := svc.LoadWorkflowsForTrigger(context.Background(), "ticket_created", testScope)
	if err != nil {
		t.Fatalf("LoadWorkflowsForTrigger: %v", err)
	}
	if len(workflows) != 1 {
		t.Fatalf("got %d workflows, want 1", len(workflows))
	}
	if len(workflows[0].Actions) != 1 || workflows[0].Actions[0].Name != "notify" {
		t.Errorf("actions not populated: %+v", workflows[0].Actions)
	}
}

func TestCreateOrUpdateActionsReportsEveryFailure(t *testing.T) {
	repo := newFakeWorkflowRepo()
	svc := NewWorkflowService(repo, nil)

	actions := []WorkflowAction{
		{Name: "ok", Type: ActionAddNote, Position: 0, Attributes: map[string]interface{}{"message": "hi"}},
		{Name: "bad email", Type: ActionSendEmail, Position: 1, Attributes: map[string]interface{}{"to": "a@b.c"}}, // missing subject, body
		{Name: "wrong slot", Type: ActionAddNote, Position: 5, Attributes: map[string]interface{}{"message": "hi"}},
	}

	result, err := svc.CreateOrUpdateActions(context.Background(), actions, "u1", testScope)
	if err != nil {
		t.Fatalf("CreateOrUpdateActions: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(result.Errors), result.Errors)
	}
	if result.Errors[0].Position != 1 || result.Errors[1].Position != 2 {
		t.Errorf("error positions = %d, %d; want 1, 2", result.Errors[0].Position, result.Errors[1].Position)
	}
	if repo.insertedActions != 0 || repo.updatedActions != 0 {
		t.Error("a failing batch must not write anything")
	}
	if len(result.ActionIDs) != 0 {
		t.Errorf("failing batch returned ids: %v", result.ActionIDs)
	}
}

func TestCreateOrUpdateActionsRejectsDuplicateNames(t *testing.T) {
	repo := newFakeWorkflowRepo()
	svc := NewWorkflowService(repo, nil)

	actions := []WorkflowAction{
		{Name: "Notify Team", Type: ActionAddNote, Position: 0, Attributes: map[string]interface{}{"message": "a"}},
		{Name: "notify team", Type: ActionAddNote, Position: 1, Attributes: map[string]interface{}{"message": "b"}},
	}

	result, err := svc.CreateOrUpdateActions(context.Background(), actions, "u1", testScope)
	if err != nil {
		t.Fatalf("CreateOrUpdateActions: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1 (case-insensitive duplicate)", len(result.Errors))
	}
}

func TestCreateOrUpdateActionsCommitsCleanBatch(t *testing.T) {
	repo := newFakeWorkflowRepo()
	svc := NewWorkflowService(repo, nil)

	existing := &WorkflowAction{Name: "old name", Type: ActionAddNote, Position: 0, WorkspaceID: "ws1", ClientID: "cl1", Attributes: map[string]interface{}{"message": "x"}}
	if err := repo.InsertActions(context.Background(), []*WorkflowAction{existing}); err != nil {
		t.Fatal(err)
	}
	repo.insertedActions = 0

	actions := []WorkflowAction{
		{ID: existing.ID, Name: "renamed", Type: ActionAddNote, Position: 0, Attributes: map[string]interface{}{"message": "x"}},
		{Name: "escalate", Type: ActionInternalNotification, Position: 1, Attributes: map[string]interface{}{
			"subject": "s", "message": "m", "teamId": "t1",
		}},
	}

	result, err := svc.CreateOrUpdateActions(context.Background(), actions, "u1", testScope)
	if err != nil {
		t.Fatalf("CreateOrUpdateActions: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.ActionIDs) != 2 {
		t.Fatalf("got %d ids, want 2", len(result.ActionIDs))
	}
	if repo.updatedActions != 1 || repo.insertedActions != 1 {
		t.Errorf("updates = %d inserts = %d, want 1 and 1", repo.updatedActions, repo.insertedActions)
	}

	stored := repo.actions[result.ActionIDs[1]]
	if stored.WorkspaceID != "ws1" || stored.ClientID != "cl1" || stored.CreatedBy != "u1" {
		t.Errorf("new action missing scope or creator: %+v", stored)
	}
}

func TestValidateActionAttributes(t *testing.T) {
	tests := []struct {
		name    string
		action  WorkflowAction
		wantErr bool
	}{
		{
			name:    "unsupported type",
			action:  WorkflowAction{Name: "x", Type: ActionType("webhook")},
			wantErr: true,
		},
		{
			name:    "missing name",
			action:  WorkflowAction{Type: ActionAddNote, Attributes: map[string]interface{}{"message": "hi"}},
			wantErr: true,
		},
		{
			name:    "create ticket needs subject",
			action:  WorkflowAction{Name: "x", Type: ActionCreateTicket, Attributes: map[string]interface{}{}},
			wantErr: true,
		},
		{
			name:    "update ticket needs nothing",
			action:  WorkflowAction{Name: "x", Type: ActionUpdateTicket, Attributes: map[string]interface{}{}},
			wantErr: false,
		},
		{
			name: "notification needs assignee or team",
			action: WorkflowAction{Name: "x", Type: ActionInternalNotification, Attributes: map[string]interface{}{
				"subject": "s", "message": "m",
			}},
			wantErr: true,
		},
		{
			name: "notification with assignee",
			action: WorkflowAction{Name: "x", Type: ActionInternalNotification, Attributes: map[string]interface{}{
				"subject": "s", "message": "m", "assigneeId": "a1",
			}},
			wantErr: false,
		},
		{
			name:    "run script needs script",
			action:  WorkflowAction{Name: "x", Type: ActionRunScript, Attributes: map[string]interface{}{"script": ""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateActionAttributes(tt.action, 0)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateActionAttributes() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
