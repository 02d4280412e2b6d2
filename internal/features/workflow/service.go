package workflow

import (
	"context"
	"fmt"
	"strings"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Auditor records authoring changes and workflow executions. Satisfied by the
// audit feature's service via an adapter in main.
type Auditor interface {
	LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error
}

type WorkflowService interface {
	CreateWorkflow(ctx context.Context, wf *Workflow) error
	GetWorkflow(ctx context.Context, id string, scope common_models.Scope) (*Workflow, error)
	ListWorkflows(ctx context.Context, scope common_models.Scope) ([]Workflow, error)
	UpdateWorkflow(ctx context.Context, wf *Workflow) error
	DeleteWorkflow(ctx context.Context, id string, scope common_models.Scope) error

	CreateEventWorkflow(ctx context.Context, ew *EventWorkflow) error
	UpdateEventWorkflow(ctx context.Context, ew *EventWorkflow) error
	DeleteEventWorkflow(ctx context.Context, id string, scope common_models.Scope) error
	ListEventWorkflows(ctx context.Context, eventID string, scope common_models.Scope) ([]EventWorkflow, error)

	// LoadWorkflowsForTrigger resolves event links to full workflow records
	// with rules and actions populated. Empty result means "nothing to do",
	// never a fault.
	LoadWorkflowsForTrigger(ctx context.Context, eventID string, scope common_models.Scope) ([]Workflow, error)

	CreateOrUpdateActions(ctx context.Context, actions []WorkflowAction, createdBy string, scope common_models.Scope) (*ActionBatchResult, error)
	UpdateWorkflowAction(ctx context.Context, action *WorkflowAction) error
	DeleteWorkflowAction(ctx context.Context, id string, scope common_models.Scope) error
}

type WorkflowServiceImpl struct {
	Repo         WorkflowRepository
	AuditService Auditor
}

func NewWorkflowService(repo WorkflowRepository, auditService Auditor) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *WorkflowServiceImpl) CreateWorkflow(ctx context.Context, wf *Workflow) error {
	if wf.Name == "" {
		return &errs.ValidationError{Message: "workflow name is required"}
	}
	err := s.Repo.CreateWorkflow(ctx, wf)
	if err == nil && s.AuditService != nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "workflows", wf.ID.Hex(), map[string]common_models.Change{
			"workflow": {New: wf},
		})
	}
	return err
}

func (s *WorkflowServiceImpl) GetWorkflow(ctx context.Context, id string, scope common_models.Scope) (*Workflow, error) {
	wf, err := s.Repo.GetWorkflow(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	actions, err := s.Repo.GetActionsByIDs(ctx, wf.ActionIDs, scope)
	if err != nil {
		return nil, err
	}
	wf.Actions = actions
	return wf, nil
}

func (s *WorkflowServiceImpl) ListWorkflows(ctx context.Context, scope common_models.Scope) ([]Workflow, error) {
	return s.Repo.ListWorkflows(ctx, scope)
}

func (s *WorkflowServiceImpl) UpdateWorkflow(ctx context.Context, wf *Workflow) error {
	oldWf, _ := s.Repo.GetWorkflow(ctx, wf.ID.Hex(), common_models.Scope{WorkspaceID: wf.WorkspaceID, ClientID: wf.ClientID})

	err := s.Repo.UpdateWorkflow(ctx, wf)
	if err == nil && s.AuditService != nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "workflows", wf.ID.Hex(), map[string]common_models.Change{
			"workflow": {Old: oldWf, New: wf},
		})
	}
	return err
}

func (s *WorkflowServiceImpl) DeleteWorkflow(ctx context.Context, id string, scope common_models.Scope) error {
	err := s.Repo.SoftDeleteWorkflow(ctx, id, scope)
	if err == nil && s.AuditService != nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionDelete, "workflows", id, map[string]common_models.Change{
			"workflow": {New: "DELETED"},
		})
	}
	return err
}

func (s *WorkflowServiceImpl) CreateEventWorkflow(ctx context.Context, ew *EventWorkflow) error {
	err := s.Repo.CreateEventWorkflow(ctx, ew)
	if err == nil && s.AuditService != nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionCreate, "event_workflows", ew.ID.Hex(), map[string]common_models.Change{
			"link": {New: ew},
		})
	}
	return err
}

func (s *WorkflowServiceImpl) UpdateEventWorkflow(ctx context.Context, ew *EventWorkflow) error {
	err := s.Repo.UpdateEventWorkflow(ctx, ew)
	if err == nil && s.AuditService != nil {
		s.AuditService.LogChange(ctx, common_models.AuditActionUpdate, "event_workflows", ew.ID.Hex(), map[string]common_models.Change{
			"link": {New: ew},
		})
	}
	return err
}

func (s *WorkflowServiceImpl) DeleteEventWorkflow(ctx context.Context, id string, scope common_models.Scope) error {
	return s.Repo.DeleteEventWorkflow(ctx, id, scope)
}

func (s *WorkflowServiceImpl) ListEventWorkflows(ctx context.Context, eventID string, scope common_models.Scope) ([]EventWorkflow, error) {
	return s.Repo.ListEventWorkflows(ctx, eventID, scope)
}

func (s *WorkflowServiceImpl) LoadWorkflowsForTrigger(ctx context.Context, eventID string, scope common_models.Scope) ([]Workflow, error) {
	links, err := s.Repo.ListEventWorkflows(ctx, eventID, scope)
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return []Workflow{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.WorkflowID)
	}

	workflows, err := s.Repo.GetWorkflowsByIDs(ctx, ids, scope)
	if err != nil {
		return nil, err
	}

	for i := range workflows {
		actions, err := s.Repo.GetActionsByIDs(ctx, workflows[i].ActionIDs, scope)
		if err != nil {
			return nil, err
		}
		workflows[i].Actions = actions
	}
	return workflows, nil
}

// requiredAttributes maps each action type to the attribute keys it cannot
// run without. internal_notification additionally needs an assignee or team,
// checked separately.
var requiredAttributes = map[ActionType][]string{
	ActionCreateTicket:         {"subject"},
	ActionUpdateTicket:         {},
	ActionReplyToCustomer:      {"message"},
	ActionAddNote:              {"message"},
	ActionInternalNotification: {"subject", "message"},
	ActionSendEmail:            {"to", "subject", "body"},
	ActionRunScript:            {"script"},
}

func validateActionAttributes(a WorkflowAction, position int) *errs.ValidationError {
	required, ok := requiredAttributes[a.Type]
	if !ok {
		return &errs.ValidationError{
			Position: position,
			Data:     a.Attributes,
			Message:  fmt.Sprintf("unsupported action type %q", a.Type),
		}
	}

	if a.Name == "" {
		return &errs.ValidationError{
			Position: position,
			Data:     a.Attributes,
			Message:  "action name is required",
		}
	}

	for _, key := range required {
		v, present := a.Attributes[key]
		if !present || v == nil || fmt.Sprintf("%v", v) == "" {
			return &errs.ValidationError{
				Position: position,
				Data:     a.Attributes,
				Message:  fmt.Sprintf("missing required attribute %q for action type %q", key, a.Type),
			}
		}
	}

	if a.Type == ActionInternalNotification {
		_, hasAssignee := a.Attributes["assigneeId"]
		_, hasTeam := a.Attributes["teamId"]
		if !hasAssignee && !hasTeam {
			return &errs.ValidationError{
				Position: position,
				Data:     a.Attributes,
				Message:  `internal_notification requires "assigneeId" or "teamId"`,
			}
		}
	}

	return nil
}

// CreateOrUpdateActions validates the whole batch first and reports every
// failure; nothing is written unless the error list is empty. Position must
// equal the row's index, and names are unique case-insensitively per client.
func (s *WorkflowServiceImpl) CreateOrUpdateActions(ctx context.Context, actions []WorkflowAction, createdBy string, scope common_models.Scope) (*ActionBatchResult, error) {
	result := &ActionBatchResult{
		ActionIDs: []string{},
		Errors:    []errs.ValidationError{},
	}

	updateIDs := make([]primitive.ObjectID, 0, len(actions))
	for _, a := range actions {
		if !a.ID.IsZero() {
			updateIDs = append(updateIDs, a.ID)
		}
	}

	seenNames := make(map[string]int)
	for i, a := range actions {
		if vErr := validateActionAttributes(a, i); vErr != nil {
			result.Errors = append(result.Errors, *vErr)
			continue
		}

		if a.Position != i {
			result.Errors = append(result.Errors, errs.ValidationError{
				Position: i,
				Data:     a.Attributes,
				Message:  fmt.Sprintf("action position %d does not match batch index %d", a.Position, i),
			})
			continue
		}

		lower := strings.ToLower(a.Name)
		if prev, dup := seenNames[lower]; dup {
			result.Errors = append(result.Errors, errs.ValidationError{
				Position: i,
				Data:     a.Attributes,
				Message:  fmt.Sprintf("duplicate action name %q (also at position %d)", a.Name, prev),
			})
			continue
		}
		seenNames[lower] = i

		exists, err := s.Repo.ActionNameExists(ctx, a.Name, scope.ClientID, updateIDs)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Errors = append(result.Errors, errs.ValidationError{
				Position: i,
				Data:     a.Attributes,
				Message:  fmt.Sprintf("action name %q already exists", a.Name),
			})
		}
	}

	// All-or-nothing: any failed row blocks the whole batch.
	if len(result.Errors) > 0 {
		return result, nil
	}

	var inserts []*WorkflowAction
	for i := range actions {
		a := &actions[i]
		a.WorkspaceID = scope.WorkspaceID
		a.ClientID = scope.ClientID
		a.CreatedBy = createdBy

		if a.ID.IsZero() {
			inserts = append(inserts, a)
			continue
		}
		if err := s.Repo.UpdateAction(ctx, a); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.InsertActions(ctx, inserts); err != nil {
		return nil, err
	}

	for i := range actions {
		result.ActionIDs = append(result.ActionIDs, actions[i].ID.Hex())
	}
	return result, nil
}

func (s *WorkflowServiceImpl) UpdateWorkflowAction(ctx context.Context, action *WorkflowAction) error {
	if vErr := validateActionAttributes(*action, action.Position); vErr != nil {
		return vErr
	}
	return s.Repo.UpdateAction(ctx, action)
}

func (s *WorkflowServiceImpl) DeleteWorkflowAction(ctx context.Context, id string, scope common_models.Scope) error {
	return s.Repo.SoftDeleteAction(ctx, id, scope)
}
