package workflow

import (
	"context"
	"testing"

	"go-desk/internal/common/errs"
	common_models "go-desk/internal/common/models"

	"go.uber.org/zap"
)

type fakeReader struct {
	docs map[string]map[string]interface{}
}

func (f *fakeReader) GetRawByID(_ context.Context, id string, _ common_models.Scope) (map[string]interface{}, error) {
	if doc, ok := f.docs[id]; ok {
		return doc, nil
	}
	return nil, errs.ErrNotFound
}

type fakeAuditor struct {
	entries []string
}

func (f *fakeAuditor) LogChange(_ context.Context, _ common_models.AuditAction, module, recordID string, _ map[string]common_models.Change) error {
	f.entries = append(f.entries, module+"/"+recordID)
	return nil
}

type engineFixture struct {
	repo     *fakeWorkflowRepo
	svc      WorkflowService
	exec     *executorFixture
	audit    *fakeAuditor
	tickets  *fakeReader
	resolver *FactResolver
	engine   *Engine
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	f := &engineFixture{
		repo:  newFakeWorkflowRepo(),
		exec:  newExecutorFixture(),
		audit: &fakeAuditor{},
		tickets: &fakeReader{docs: map[string]map[string]interface{}{
			"64f000000000000000000001": {
				"id":          "64f000000000000000000001",
				"sno":         int64(42),
				"subject":     "printer on fire",
				"priority":    "high",
				"customer_id": "c1",
			},
		}},
	}
	f.svc = NewWorkflowService(f.repo, nil)
	customers := &fakeReader{docs: map[string]map[string]interface{}{
		"c1": {"id": "c1", "plan": "enterprise", "email": "jo@corp.test"},
	}}
	companies := &fakeReader{docs: map[string]map[string]interface{}{}}
	f.resolver = NewFactResolver(f.tickets, customers, companies, zap.NewNop())
	f.engine = NewEngine(f.svc, f.resolver, f.exec.executor, f.audit, zap.NewNop())
	return f
}

func (f *engineFixture) addWorkflow(t *testing.T, wf *Workflow, triggerID string, actions ...*WorkflowAction) {
	t.Helper()
	ctx := context.Background()

	for _, a := range actions {
		a.ClientID = testScope.ClientID
		a.WorkspaceID = testScope.WorkspaceID
		if err := f.repo.InsertActions(ctx, []*WorkflowAction{a}); err != nil {
			t.Fatal(err)
		}
		wf.ActionIDs = append(wf.ActionIDs, a.ID)
	}

	wf.WorkspaceID = testScope.WorkspaceID
	wf.ClientID = testScope.ClientID
	if err := f.repo.CreateWorkflow(ctx, wf); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.CreateEventWorkflow(ctx, &EventWorkflow{
		EventID:     triggerID,
		WorkflowID:  wf.ID,
		WorkspaceID: testScope.WorkspaceID,
		ClientID:    testScope.ClientID,
	}); err != nil {
		t.Fatal(err)
	}
}

func ticketPayload() map[string]interface{} {
	return map[string]interface{}{
		"ticket": map[string]interface{}{"id": "64f000000000000000000001"},
	}
}

func TestHandleTriggerRunsMatchingWorkflow(t *testing.T) {
	f := newEngineFixture(t)
	f.exec.recipients.emails = []string{"u1@corp.test"}

	f.addWorkflow(t, &Workflow{
		Name:   "escalate high priority",
		Status: StatusActive,
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"high"}},
			},
		}},
	}, "ticket_created", &WorkflowAction{
		Name: "page assignee", Type: ActionInternalNotification, Position: 0,
		Attributes: map[string]interface{}{"assigneeId": "U1", "subject": "Hi", "message": "Ping"},
	})

	if err := f.engine.HandleTrigger(context.Background(), "ticket_created", ticketPayload(), testScope); err != nil {
		t.Fatalf("HandleTrigger: %v", err)
	}
	if len(f.exec.mailer.sent) != 1 {
		t.Fatalf("sent %d emails, want exactly 1", len(f.exec.mailer.sent))
	}
	sent := f.exec.mailer.sent[0]
	if len(sent.to) != 1 || sent.to[0] != "u1@corp.test" {
		t.Errorf("to = %v, want the assignee's resolved address", sent.to)
	}
	if sent.subject != "Hi" {
		t.Errorf("subject = %q, want Hi", sent.subject)
	}
	if len(f.audit.entries) != 1 {
		t.Errorf("audit entries = %v, want one execution record", f.audit.entries)
	}
}

func TestHandleTriggerSkipsNonMatchingWorkflow(t *testing.T) {
	f := newEngineFixture(t)

	f.addWorkflow(t, &Workflow{
		Name:   "only urgent",
		Status: StatusActive,
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"urgent"}},
			},
		}},
	}, "ticket_created", &WorkflowAction{
		Name: "mail ops", Type: ActionSendEmail, Position: 0,
		Attributes: map[string]interface{}{"to": "ops@corp.test", "subject": "s", "body": "b"},
	})

	if err := f.engine.HandleTrigger(context.Background(), "ticket_created", ticketPayload(), testScope); err != nil {
		t.Fatalf("HandleTrigger: %v", err)
	}
	if len(f.exec.mailer.sent) != 0 {
		t.Error("non-matching workflow must not execute")
	}
	if len(f.audit.entries) != 0 {
		t.Error("non-matching workflow must not be audited")
	}
}

func TestHandleTriggerSkipsInactiveWorkflow(t *testing.T) {
	f := newEngineFixture(t)

	f.addWorkflow(t, &Workflow{
		Name:      "disabled",
		Status:    StatusInactive,
		AlwaysRun: true,
	}, "ticket_created", &WorkflowAction{
		Name: "mail ops", Type: ActionSendEmail, Position: 0,
		Attributes: map[string]interface{}{"to": "ops@corp.test", "subject": "s", "body": "b"},
	})

	if err := f.engine.HandleTrigger(context.Background(), "ticket_created", ticketPayload(), testScope); err != nil {
		t.Fatalf("HandleTrigger: %v", err)
	}
	if len(f.exec.mailer.sent) != 0 {
		t.Error("inactive workflow executed")
	}
}

func TestHandleTriggerEmptyRulesNeedAlwaysRun(t *testing.T) {
	f := newEngineFixture(t)

	f.addWorkflow(t, &Workflow{
		Name:   "no rules no flag",
		Status: StatusActive,
	}, "ticket_created", &WorkflowAction{
		Name: "note a", Type: ActionAddNote, Position: 0,
		Attributes: map[string]interface{}{"message": "should not appear"},
	})
	f.addWorkflow(t, &Workflow{
		Name:      "unconditional",
		Status:    StatusActive,
		AlwaysRun: true,
	}, "ticket_created", &WorkflowAction{
		Name: "note b", Type: ActionAddNote, Position: 0,
		Attributes: map[string]interface{}{"message": "always"},
	})

	if err := f.engine.HandleTrigger(context.Background(), "ticket_created", ticketPayload(), testScope); err != nil {
		t.Fatalf("HandleTrigger: %v", err)
	}
	if len(f.exec.messages.messages) != 1 {
		t.Fatalf("wrote %d messages, want only the always-run workflow's note", len(f.exec.messages.messages))
	}
	if f.exec.messages.messages[0].body != "always" {
		t.Errorf("body = %q", f.exec.messages.messages[0].body)
	}
}

func TestHandleTriggerIsolatesMalformedWorkflow(t *testing.T) {
	f := newEngineFixture(t)

	f.addWorkflow(t, &Workflow{
		Name:   "broken rule",
		Status: StatusActive,
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchType("most"),
			Properties: []RuleProperty{
				{Resource: "ticket", Field: "priority", Operator: OperatorEquals, Value: []interface{}{"high"}},
			},
		}},
	}, "ticket_created", &WorkflowAction{
		Name: "never", Type: ActionAddNote, Position: 0,
		Attributes: map[string]interface{}{"message": "broken"},
	})
	f.addWorkflow(t, &Workflow{
		Name:   "healthy sibling",
		Status: StatusActive,
		Rules: []WorkflowRule{{
			ID:        "r1",
			MatchType: MatchAll,
			Properties: []RuleProperty{
				{Resource: "customer", Field: "plan", Operator: OperatorEquals, Value: []interface{}{"enterprise"}},
			},
		}},
	}, "ticket_created", &WorkflowAction{
		Name: "note", Type: ActionAddNote, Position: 0,
		Attributes: map[string]interface{}{"message": "sibling ran"},
	})

	if err := f.engine.HandleTrigger(context.Background(), "ticket_created", ticketPayload(), testScope); err != nil {
		t.Fatalf("a malformed workflow must not fail the trigger: %v", err)
	}
	if len(f.exec.messages.messages) != 1 || f.exec.messages.messages[0].body != "sibling ran" {
		t.Errorf("messages = %+v, want only the healthy workflow's note", f.exec.messages.messages)
	}
}

func TestHandleTriggerNoLinkedWorkflowsIsANoop(t *testing.T) {
	f := newEngineFixture(t)

	// No fact resolution should be attempted: the payload references a ticket
	// the store does not know.
	payload := map[string]interface{}{
		"ticket": map[string]interface{}{"id": "missing"},
	}
	if err := f.engine.HandleTrigger(context.Background(), "ticket_created", payload, testScope); err != nil {
		t.Fatalf("HandleTrigger with no links: %v", err)
	}
}

func TestResolveNonTicketPayload(t *testing.T) {
	f := newEngineFixture(t)

	payload := map[string]interface{}{
		"customer": map[string]interface{}{"id": "c9", "plan": "free"},
	}
	facts, err := f.resolver.Resolve(context.Background(), payload, testScope)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if facts["customer"]["plan"] != "free" {
		t.Errorf("customer facts = %+v, want payload taken as-is", facts["customer"])
	}

	if _, err := f.resolver.Resolve(context.Background(), map[string]interface{}{"other": 1}, testScope); err == nil {
		t.Fatal("want error for payload with no resolvable resource")
	}
}

func TestResolveTicketPayloadJoinsCustomer(t *testing.T) {
	f := newEngineFixture(t)

	facts, err := f.resolver.Resolve(context.Background(), ticketPayload(), testScope)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if facts["ticket"]["priority"] != "high" {
		t.Errorf("ticket facts = %+v, want the stored document", facts["ticket"])
	}
	if facts["customer"]["plan"] != "enterprise" {
		t.Errorf("customer facts = %+v, want joined via ticket.customer_id", facts["customer"])
	}
	// A missing company record only drops the company facts.
	if _, ok := facts["company"]; ok {
		t.Error("company facts present without a company_id on the ticket")
	}
}
