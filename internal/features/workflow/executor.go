package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"

	common_models "go-desk/internal/common/models"

	"github.com/d5/tengo/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Narrow collaborator contracts, satisfied by the domain services through
// adapters wired in main. The executor never imports a domain feature.

type TicketWriter interface {
	CreateFromWorkflow(ctx context.Context, scope common_models.Scope, attrs, customFields map[string]interface{}, workflowID string) error
	UpdateBySno(ctx context.Context, scope common_models.Scope, sno int64, attrs, customFields map[string]interface{}) error
}

type MessageWriter interface {
	AddWorkflowMessage(ctx context.Context, scope common_models.Scope, ticketID, kind, body string) error
}

type RecipientResolver interface {
	EmailsFor(ctx context.Context, scope common_models.Scope, assigneeID, teamID string) ([]string, error)
}

type Mailer interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

// ActionExecutor runs a matched workflow's actions in position order,
// sequentially, best-effort: one action failing never stops the rest, and
// there is no rollback.
type ActionExecutor interface {
	ExecuteActions(ctx context.Context, wf *Workflow, facts Facts, scope common_models.Scope) error
	ExecuteAction(ctx context.Context, wf *Workflow, action WorkflowAction, facts Facts, scope common_models.Scope) error
}

type ActionExecutorImpl struct {
	tickets    TicketWriter
	messages   MessageWriter
	recipients RecipientResolver
	mailer     Mailer
	log        *zap.Logger
}

func NewActionExecutor(tickets TicketWriter, messages MessageWriter, recipients RecipientResolver, mailer Mailer, log *zap.Logger) ActionExecutor {
	return &ActionExecutorImpl{
		tickets:    tickets,
		messages:   messages,
		recipients: recipients,
		mailer:     mailer,
		log:        log,
	}
}

func (e *ActionExecutorImpl) ExecuteActions(ctx context.Context, wf *Workflow, facts Facts, scope common_models.Scope) error {
	actions := make([]WorkflowAction, len(wf.Actions))
	copy(actions, wf.Actions)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Position < actions[j].Position })

	for _, action := range actions {
		if err := e.ExecuteAction(ctx, wf, action, facts, scope); err != nil {
			e.log.Error("workflow action failed",
				zap.String("workflow_id", wf.ID.Hex()),
				zap.String("action", action.Name),
				zap.String("type", string(action.Type)),
				zap.Error(err))
			// Later actions still run
		}
	}
	return nil
}

func (e *ActionExecutorImpl) ExecuteAction(ctx context.Context, wf *Workflow, action WorkflowAction, facts Facts, scope common_models.Scope) error {
	switch action.Type {
	case ActionCreateTicket:
		return e.executeCreateTicket(ctx, wf, action, facts, scope)
	case ActionUpdateTicket:
		return e.executeUpdateTicket(ctx, action, facts, scope)
	case ActionReplyToCustomer:
		return e.executeMessage(ctx, action, facts, scope, "text")
	case ActionAddNote:
		return e.executeMessage(ctx, action, facts, scope, "note")
	case ActionInternalNotification:
		return e.executeInternalNotification(ctx, action, facts, scope)
	case ActionSendEmail:
		return e.executeSendEmail(ctx, action, facts)
	case ActionRunScript:
		return e.executeRunScript(action, facts)
	default:
		return fmt.Errorf("unsupported action type: %s", action.Type)
	}
}

// splitCustomAttributes moves every attribute whose key is a UUID into the
// custom-field bag; those keys are custom-field ids, not ticket columns.
func splitCustomAttributes(action WorkflowAction) (map[string]interface{}, map[string]interface{}) {
	attrs := make(map[string]interface{}, len(action.Attributes))
	for k, v := range action.Attributes {
		attrs[k] = v
	}
	custom := make(map[string]interface{}, len(action.CustomAttributes))
	for k, v := range action.CustomAttributes {
		custom[k] = v
	}
	for k, v := range attrs {
		if _, err := uuid.Parse(k); err == nil {
			custom[k] = v
			delete(attrs, k)
		}
	}
	return attrs, custom
}

func (e *ActionExecutorImpl) executeCreateTicket(ctx context.Context, wf *Workflow, action WorkflowAction, facts Facts, scope common_models.Scope) error {
	attrs, custom := splitCustomAttributes(action)
	for k, v := range attrs {
		if s, ok := v.(string); ok {
			attrs[k] = renderPlaceholders(s, facts["ticket"])
		}
	}
	return e.tickets.CreateFromWorkflow(ctx, scope, attrs, custom, wf.ID.Hex())
}

func (e *ActionExecutorImpl) executeUpdateTicket(ctx context.Context, action WorkflowAction, facts Facts, scope common_models.Scope) error {
	sno, err := ticketSno(facts)
	if err != nil {
		return err
	}
	attrs, custom := splitCustomAttributes(action)
	return e.tickets.UpdateBySno(ctx, scope, sno, attrs, custom)
}

func (e *ActionExecutorImpl) executeMessage(ctx context.Context, action WorkflowAction, facts Facts, scope common_models.Scope, kind string) error {
	message, _ := action.Attributes["message"].(string)
	if message == "" {
		return fmt.Errorf("%s action requires a message", action.Type)
	}

	ticketID, err := ticketID(facts)
	if err != nil {
		return err
	}

	return e.messages.AddWorkflowMessage(ctx, scope, ticketID, kind, renderPlaceholders(message, facts["ticket"]))
}

func (e *ActionExecutorImpl) executeInternalNotification(ctx context.Context, action WorkflowAction, facts Facts, scope common_models.Scope) error {
	assigneeID, _ := action.Attributes["assigneeId"].(string)
	teamID, _ := action.Attributes["teamId"].(string)
	subject, _ := action.Attributes["subject"].(string)
	message, _ := action.Attributes["message"].(string)

	if assigneeID == "" && teamID == "" {
		return fmt.Errorf("internal_notification requires assigneeId or teamId")
	}
	if subject == "" {
		return fmt.Errorf("internal_notification requires a subject")
	}

	emails, err := e.recipients.EmailsFor(ctx, scope, assigneeID, teamID)
	if err != nil {
		return fmt.Errorf("failed to resolve notification recipients: %w", err)
	}
	if len(emails) == 0 {
		return fmt.Errorf("no recipients resolved for assignee %q / team %q", assigneeID, teamID)
	}

	subject = renderPlaceholders(subject, facts["ticket"])
	body := renderPlaceholders(message, facts["ticket"])

	return e.mailer.SendEmail(ctx, emails, subject, body)
}

func (e *ActionExecutorImpl) executeSendEmail(ctx context.Context, action WorkflowAction, facts Facts) error {
	toStr, _ := action.Attributes["to"].(string)
	subject, _ := action.Attributes["subject"].(string)
	body, _ := action.Attributes["body"].(string)

	if toStr == "" {
		return fmt.Errorf("send_email requires a recipient")
	}

	var to []string
	for _, addr := range strings.Split(toStr, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	subject = renderPlaceholders(subject, facts["ticket"])
	body = renderPlaceholders(body, facts["ticket"])

	return e.mailer.SendEmail(ctx, to, subject, body)
}

func (e *ActionExecutorImpl) executeRunScript(action WorkflowAction, facts Facts) error {
	scriptContent, _ := action.Attributes["script"].(string)
	if scriptContent == "" {
		return fmt.Errorf("script content is required")
	}

	script := tengo.NewScript([]byte(scriptContent))

	for _, resource := range []string{"ticket", "customer", "company"} {
		value := map[string]interface{}{}
		if f, ok := facts[resource]; ok {
			value = f
		}
		if err := script.Add(resource, value); err != nil {
			return fmt.Errorf("failed to bind %s facts: %w", resource, err)
		}
	}

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("failed to compile script: %w", err)
	}
	if err := compiled.Run(); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	return nil
}

// renderPlaceholders substitutes {{field}} markers with ticket fact values.
func renderPlaceholders(text string, fields map[string]interface{}) string {
	if text == "" || len(fields) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	for key, value := range fields {
		text = strings.ReplaceAll(text, fmt.Sprintf("{{%s}}", key), fmt.Sprintf("%v", value))
	}
	return text
}

func ticketID(facts Facts) (string, error) {
	ticket, ok := facts["ticket"]
	if !ok {
		return "", fmt.Errorf("no ticket in fact bundle")
	}
	for _, key := range []string{"id", "_id"} {
		if v, ok := ticket[key]; ok {
			return fmt.Sprintf("%v", v), nil
		}
	}
	return "", fmt.Errorf("ticket fact has no id")
}

func ticketSno(facts Facts) (int64, error) {
	ticket, ok := facts["ticket"]
	if !ok {
		return 0, fmt.Errorf("no ticket in fact bundle")
	}
	v, ok := ticket["sno"]
	if !ok {
		return 0, fmt.Errorf("ticket fact has no sno")
	}
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
