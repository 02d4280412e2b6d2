package ticket

import (
	"context"
	"fmt"
	"time"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type TicketService interface {
	CreateTicket(ctx context.Context, t *Ticket) error
	GetTicket(ctx context.Context, id string, scope common_models.Scope) (*Ticket, error)
	ListTickets(ctx context.Context, scope common_models.Scope, status string) ([]Ticket, error)
	UpdateTicket(ctx context.Context, t *Ticket) error
	DeleteTicket(ctx context.Context, id string, scope common_models.Scope) error

	// CreateFromWorkflow and UpdateBySno back the create_ticket and
	// update_ticket automation actions.
	CreateFromWorkflow(ctx context.Context, scope common_models.Scope, attrs, customFields map[string]interface{}, workflowID string) error
	UpdateBySno(ctx context.Context, scope common_models.Scope, sno int64, attrs, customFields map[string]interface{}) error
}

type TicketServiceImpl struct {
	Repo      TicketRepository
	Publisher *event.Publisher
	Log       *zap.Logger
}

func NewTicketService(repo TicketRepository, publisher *event.Publisher, log *zap.Logger) TicketService {
	return &TicketServiceImpl{
		Repo:      repo,
		Publisher: publisher,
		Log:       log,
	}
}

// eventData attaches the tenant scope to the ticket payload so consumers can
// evaluate workflows within the right workspace and client.
func eventData(t *Ticket) map[string]interface{} {
	data := t.Payload()
	data["workspace_id"] = t.WorkspaceID
	data["client_id"] = t.ClientID
	return data
}

func (s *TicketServiceImpl) CreateTicket(ctx context.Context, t *Ticket) error {
	if t.Subject == "" {
		return &errs.ValidationError{Message: "ticket subject is required"}
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return err
	}

	s.Publisher.Publish(ctx, trigger.TicketCreated, eventData(t))
	return nil
}

func (s *TicketServiceImpl) GetTicket(ctx context.Context, id string, scope common_models.Scope) (*Ticket, error) {
	return s.Repo.GetByID(ctx, id, scope)
}

func (s *TicketServiceImpl) ListTickets(ctx context.Context, scope common_models.Scope, status string) ([]Ticket, error) {
	return s.Repo.List(ctx, scope, status)
}

func (s *TicketServiceImpl) UpdateTicket(ctx context.Context, t *Ticket) error {
	scope := common_models.Scope{WorkspaceID: t.WorkspaceID, ClientID: t.ClientID}
	old, err := s.Repo.GetByID(ctx, t.ID.Hex(), scope)
	if err != nil {
		return err
	}

	if t.Status == TicketStatusClosed && old.Status != TicketStatusClosed {
		now := time.Now()
		t.ClosedAt = &now
	}

	if err := s.Repo.Update(ctx, t); err != nil {
		return err
	}

	s.Publisher.Publish(ctx, trigger.TicketUpdated, eventData(t))

	if t.Status != old.Status && t.Status == TicketStatusClosed {
		s.Publisher.Publish(ctx, trigger.TicketClosed, eventData(t))
	}
	if t.AssigneeID != old.AssigneeID && t.AssigneeID != "" {
		s.Publisher.Publish(ctx, trigger.TicketAssigned, eventData(t))
	}
	if t.Priority != old.Priority {
		s.Publisher.Publish(ctx, trigger.TicketPriorityChanged, eventData(t))
	}
	return nil
}

func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, id string, scope common_models.Scope) error {
	return s.Repo.SoftDelete(ctx, id, scope)
}

// createAttrs maps automation attribute keys onto ticket fields. Unknown keys
// are dropped with a warning rather than failing the action.
func applyAttrs(t *Ticket, attrs map[string]interface{}, log *zap.Logger) {
	for key, value := range attrs {
		str := fmt.Sprintf("%v", value)
		switch key {
		case "subject":
			t.Subject = str
		case "description":
			t.Description = str
		case "status":
			t.Status = TicketStatus(str)
		case "priority":
			t.Priority = TicketPriority(str)
		case "assigneeId", "assignee_id":
			t.AssigneeID = str
		case "teamId", "team_id":
			t.TeamID = str
		case "customerId", "customer_id":
			t.CustomerID = str
		case "companyId", "company_id":
			t.CompanyID = str
		default:
			log.Warn("ignoring unknown ticket attribute", zap.String("attribute", key))
		}
	}
}

func (s *TicketServiceImpl) CreateFromWorkflow(ctx context.Context, scope common_models.Scope, attrs, customFields map[string]interface{}, workflowID string) error {
	t := &Ticket{
		WorkspaceID:     scope.WorkspaceID,
		ClientID:        scope.ClientID,
		Channel:         TicketChannelWorkflow,
		CreatedBy:       workflowID,
		TicketCreatedBy: "workflow",
	}
	applyAttrs(t, attrs, s.Log)
	if len(customFields) > 0 {
		t.CustomFields = customFields
	}
	if t.Subject == "" {
		return &errs.ValidationError{Message: "ticket subject is required"}
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return err
	}

	// Tickets created by workflows re-enter the pipeline like any other, so
	// downstream workflows can react to them.
	s.Publisher.Publish(ctx, trigger.TicketCreated, eventData(t))
	return nil
}

func (s *TicketServiceImpl) UpdateBySno(ctx context.Context, scope common_models.Scope, sno int64, attrs, customFields map[string]interface{}) error {
	old, err := s.Repo.GetBySno(ctx, sno, scope)
	if err != nil {
		return err
	}

	set := bson.M{}
	for key, value := range attrs {
		str := fmt.Sprintf("%v", value)
		switch key {
		case "subject":
			set["subject"] = str
		case "description":
			set["description"] = str
		case "status":
			set["status"] = str
		case "priority":
			set["priority"] = str
		case "assigneeId", "assignee_id":
			set["assignee_id"] = str
		case "teamId", "team_id":
			set["team_id"] = str
		default:
			s.Log.Warn("ignoring unknown ticket attribute", zap.String("attribute", key))
		}
	}
	for fieldID, value := range customFields {
		set["custom_fields."+fieldID] = value
	}
	if len(set) == 0 {
		return nil
	}

	if err := s.Repo.UpdateFields(ctx, old.ID.Hex(), scope, set); err != nil {
		return err
	}

	updated, err := s.Repo.GetByID(ctx, old.ID.Hex(), scope)
	if err != nil {
		return err
	}
	s.Publisher.Publish(ctx, trigger.TicketUpdated, eventData(updated))

	if updated.Status != old.Status && updated.Status == TicketStatusClosed {
		s.Publisher.Publish(ctx, trigger.TicketClosed, eventData(updated))
	}
	if updated.Priority != old.Priority {
		s.Publisher.Publish(ctx, trigger.TicketPriorityChanged, eventData(updated))
	}
	return nil
}
