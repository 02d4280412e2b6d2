package workflow

import (
	"context"
	"errors"
	"testing"

	common_models "go-desk/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeTicketWriter struct {
	created []struct {
		attrs, custom map[string]interface{}
		workflowID    string
	}
	updated []struct {
		sno           int64
		attrs, custom map[string]interface{}
	}
	err error
}

func (f *fakeTicketWriter) CreateFromWorkflow(_ context.Context, _ common_models.Scope, attrs, customFields map[string]interface{}, workflowID string) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, struct {
		attrs, custom map[string]interface{}
		workflowID    string
	}{attrs, customFields, workflowID})
	return nil
}

func (f *fakeTicketWriter) UpdateBySno(_ context.Context, _ common_models.Scope, sno int64, attrs, customFields map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, struct {
		sno           int64
		attrs, custom map[string]interface{}
	}{sno, attrs, customFields})
	return nil
}

type fakeMessageWriter struct {
	messages []struct {
		ticketID, kind, body string
	}
	err error
}

func (f *fakeMessageWriter) AddWorkflowMessage(_ context.Context, _ common_models.Scope, ticketID, kind, body string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, struct {
		ticketID, kind, body string
	}{ticketID, kind, body})
	return nil
}

type fakeRecipientResolver struct {
	emails []string
	err    error
}

func (f *fakeRecipientResolver) EmailsFor(_ context.Context, _ common_models.Scope, _, _ string) ([]string, error) {
	return f.emails, f.err
}

type fakeMailer struct {
	sent []struct {
		to            []string
		subject, body string
	}
	err error
}

func (f *fakeMailer) SendEmail(_ context.Context, to []string, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, struct {
		to            []string
		subject, body string
	}{to, subject, body})
	return nil
}

type executorFixture struct {
	tickets    *fakeTicketWriter
	messages   *fakeMessageWriter
	recipients *fakeRecipientResolver
	mailer     *fakeMailer
	executor   ActionExecutor
}

func newExecutorFixture() *executorFixture {
	f := &executorFixture{
		tickets:    &fakeTicketWriter{},
		messages:   &fakeMessageWriter{},
		recipients: &fakeRecipientResolver{},
		mailer:     &fakeMailer{},
	}
	f.executor = NewActionExecutor(f.tickets, f.messages, f.recipients, f.mailer, zap.NewNop())
	return f
}

func baseFacts() Facts {
	return Facts{"ticket": {
		"id":       "64f000000000000000000001",
		"sno":      int64(42),
		"subject":  "printer on fire",
		"priority": "high",
	}}
}

func TestExecuteCreateTicketSplitsCustomFields(t *testing.T) {
	const fieldDefID = "a59cf1f0-3c1d-4a8e-b4cf-2d2c0df1e002"
	f := newExecutorFixture()

	wf := &Workflow{ID: primitive.NewObjectID()}
	action := WorkflowAction{
		Name: "open follow-up",
		Type: ActionCreateTicket,
		Attributes: map[string]interface{}{
			"subject":  "follow up: {{subject}}",
			"priority": "low",
			fieldDefID: "emea",
		},
	}

	if err := f.executor.ExecuteAction(context.Background(), wf, action, baseFacts(), testScope); err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}
	if len(f.tickets.created) != 1 {
		t.Fatalf("created %d tickets, want 1", len(f.tickets.created))
	}

	got := f.tickets.created[0]
	if got.workflowID != wf.ID.Hex() {
		t.Errorf("workflowID = %q, want %q", got.workflowID, wf.ID.Hex())
	}
	if got.attrs["subject"] != "follow up: printer on fire" {
		t.Errorf("subject = %v, placeholder not rendered", got.attrs["subject"])
	}
	if _, leaked := got.attrs[fieldDefID]; leaked {
		t.Error("UUID attribute left in ticket columns")
	}
	if got.custom[fieldDefID] != "emea" {
		t.Errorf("custom[%s] = %v, want emea", fieldDefID, got.custom[fieldDefID])
	}
}

func TestExecuteUpdateTicketUsesSnoFromFacts(t *testing.T) {
	f := newExecutorFixture()

	action := WorkflowAction{
		Name:       "close it",
		Type:       ActionUpdateTicket,
		Attributes: map[string]interface{}{"status": "closed"},
	}

	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}
	if len(f.tickets.updated) != 1 || f.tickets.updated[0].sno != 42 {
		t.Fatalf("updated = %+v, want one update for sno 42", f.tickets.updated)
	}

	// No ticket in the facts means there is nothing to update.
	err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, Facts{"customer": {}}, testScope)
	if err == nil {
		t.Fatal("want error when facts carry no ticket")
	}
}

func TestExecuteMessageKinds(t *testing.T) {
	tests := []struct {
		name     string
		typ      ActionType
		wantKind string
	}{
		{name: "reply is a text message", typ: ActionReplyToCustomer, wantKind: "text"},
		{name: "note is private", typ: ActionAddNote, wantKind: "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExecutorFixture()
			action := WorkflowAction{
				Name:       "respond",
				Type:       tt.typ,
				Attributes: map[string]interface{}{"message": "we are on {{priority}} alert"},
			}

			if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err != nil {
				t.Fatalf("ExecuteAction: %v", err)
			}
			if len(f.messages.messages) != 1 {
				t.Fatalf("wrote %d messages, want 1", len(f.messages.messages))
			}
			msg := f.messages.messages[0]
			if msg.kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", msg.kind, tt.wantKind)
			}
			if msg.ticketID != "64f000000000000000000001" {
				t.Errorf("ticketID = %q", msg.ticketID)
			}
			if msg.body != "we are on high alert" {
				t.Errorf("body = %q, placeholder not rendered", msg.body)
			}
		})
	}
}

func TestExecuteInternalNotification(t *testing.T) {
	f := newExecutorFixture()
	f.recipients.emails = []string{"a@corp.test", "b@corp.test"}

	action := WorkflowAction{
		Name: "page the team",
		Type: ActionInternalNotification,
		Attributes: map[string]interface{}{
			"teamId":  "team1",
			"subject": "escalation: {{subject}}",
			"message": "ticket needs attention",
		},
	}

	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want exactly 1", len(f.mailer.sent))
	}
	sent := f.mailer.sent[0]
	if len(sent.to) != 2 {
		t.Errorf("recipients = %v, want both team members", sent.to)
	}
	if sent.subject != "escalation: printer on fire" {
		t.Errorf("subject = %q, placeholder not rendered", sent.subject)
	}
}

func TestExecuteInternalNotificationNoRecipientsIsAnError(t *testing.T) {
	f := newExecutorFixture()
	f.recipients.emails = nil

	action := WorkflowAction{
		Name: "page",
		Type: ActionInternalNotification,
		Attributes: map[string]interface{}{
			"assigneeId": "u1",
			"subject":    "s",
			"message":    "m",
		},
	}

	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err == nil {
		t.Fatal("want error when no recipients resolve")
	}
	if len(f.mailer.sent) != 0 {
		t.Error("nothing should be sent without recipients")
	}
}

func TestExecuteSendEmailSplitsRecipients(t *testing.T) {
	f := newExecutorFixture()

	action := WorkflowAction{
		Name: "notify ops",
		Type: ActionSendEmail,
		Attributes: map[string]interface{}{
			"to":      "ops@corp.test, oncall@corp.test ,",
			"subject": "alert",
			"body":    "{{subject}} reported",
		},
	}

	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(f.mailer.sent))
	}
	sent := f.mailer.sent[0]
	if len(sent.to) != 2 || sent.to[0] != "ops@corp.test" || sent.to[1] != "oncall@corp.test" {
		t.Errorf("to = %v, want two trimmed addresses", sent.to)
	}
	if sent.body != "printer on fire reported" {
		t.Errorf("body = %q", sent.body)
	}
}

func TestExecuteRunScript(t *testing.T) {
	f := newExecutorFixture()

	action := WorkflowAction{
		Name: "compute",
		Type: ActionRunScript,
		Attributes: map[string]interface{}{
			"script": `p := ticket.priority; out := p + "!"`,
		},
	}
	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err != nil {
		t.Fatalf("ExecuteAction: %v", err)
	}

	broken := WorkflowAction{
		Name:       "broken",
		Type:       ActionRunScript,
		Attributes: map[string]interface{}{"script": `:= nonsense ::`},
	}
	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, broken, baseFacts(), testScope); err == nil {
		t.Fatal("want compile error for invalid script")
	}
}

func TestExecuteActionsContinuesPastFailures(t *testing.T) {
	f := newExecutorFixture()
	f.messages.err = errors.New("conversation store down")

	wf := &Workflow{
		ID: primitive.NewObjectID(),
		Actions: []WorkflowAction{
			{Name: "later", Type: ActionSendEmail, Position: 1, Attributes: map[string]interface{}{
				"to": "ops@corp.test", "subject": "s", "body": "b",
			}},
			{Name: "first", Type: ActionAddNote, Position: 0, Attributes: map[string]interface{}{
				"message": "doomed",
			}},
		},
	}

	if err := f.executor.ExecuteActions(context.Background(), wf, baseFacts(), testScope); err != nil {
		t.Fatalf("ExecuteActions should swallow per-action failures, got %v", err)
	}
	if len(f.mailer.sent) != 1 {
		t.Error("email after the failing note was skipped")
	}
	// The input order is preserved on the workflow itself.
	if wf.Actions[0].Name != "later" {
		t.Error("ExecuteActions mutated the workflow's action order")
	}
}

func TestExecuteActionUnsupportedType(t *testing.T) {
	f := newExecutorFixture()

	action := WorkflowAction{Name: "hook", Type: ActionType("webhook")}
	if err := f.executor.ExecuteAction(context.Background(), &Workflow{}, action, baseFacts(), testScope); err == nil {
		t.Fatal("want error for unsupported action type")
	}
}
