package conversation

import (
	"context"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ConversationService interface {
	AddMessage(ctx context.Context, m *ConversationMessage) error
	ListMessages(ctx context.Context, ticketID string, scope common_models.Scope) ([]ConversationMessage, error)
	DeleteMessage(ctx context.Context, id string, scope common_models.Scope) error

	// AddWorkflowMessage backs the reply_to_customer and add_note automation
	// actions. kind is "text" for replies and "note" for internal notes.
	AddWorkflowMessage(ctx context.Context, scope common_models.Scope, ticketID, kind, body string) error
}

type ConversationServiceImpl struct {
	Repo      ConversationRepository
	Publisher *event.Publisher
	Log       *zap.Logger
}

func NewConversationService(repo ConversationRepository, publisher *event.Publisher, log *zap.Logger) ConversationService {
	return &ConversationServiceImpl{
		Repo:      repo,
		Publisher: publisher,
		Log:       log,
	}
}

func (s *ConversationServiceImpl) eventData(m *ConversationMessage) map[string]interface{} {
	data := m.Payload()
	data["workspace_id"] = m.WorkspaceID
	data["client_id"] = m.ClientID
	return data
}

func (s *ConversationServiceImpl) AddMessage(ctx context.Context, m *ConversationMessage) error {
	if m.Body == "" {
		return &errs.ValidationError{Message: "message body is required"}
	}
	if m.Kind == "" {
		m.Kind = MessageKindText
	}

	if err := s.Repo.Create(ctx, m); err != nil {
		return err
	}

	switch {
	case m.Kind == MessageKindNote:
		s.Publisher.Publish(ctx, trigger.NoteAdded, s.eventData(m))
	case m.UserType == UserTypeCustomer:
		s.Publisher.Publish(ctx, trigger.CustomerReply, s.eventData(m))
	default:
		s.Publisher.Publish(ctx, trigger.NewMessage, s.eventData(m))
	}
	return nil
}

func (s *ConversationServiceImpl) ListMessages(ctx context.Context, ticketID string, scope common_models.Scope) ([]ConversationMessage, error) {
	return s.Repo.ListByTicket(ctx, ticketID, scope)
}

func (s *ConversationServiceImpl) DeleteMessage(ctx context.Context, id string, scope common_models.Scope) error {
	return s.Repo.SoftDelete(ctx, id, scope)
}

// AddWorkflowMessage stamps the workflow author type so automation output is
// visible as such in the thread. The insertion is published like any other
// message; guarding against workflow loops is left to the tenant's rules.
func (s *ConversationServiceImpl) AddWorkflowMessage(ctx context.Context, scope common_models.Scope, ticketID, kind, body string) error {
	oid, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return errs.ErrNotFound
	}

	m := &ConversationMessage{
		TicketID:    oid,
		WorkspaceID: scope.WorkspaceID,
		ClientID:    scope.ClientID,
		Kind:        MessageKind(kind),
		UserType:    UserTypeWorkflow,
		Body:        body,
	}
	return s.AddMessage(ctx, m)
}
