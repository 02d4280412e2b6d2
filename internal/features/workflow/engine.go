package workflow

import (
	"context"
	"fmt"

	common_models "go-desk/internal/common/models"

	"go.uber.org/zap"
)

// Fact readers return the stored document as a flat map so rule fields line up
// with persisted field names. Implemented by the domain repositories.

type TicketReader interface {
	GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error)
}

type CustomerReader interface {
	GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error)
}

type CompanyReader interface {
	GetRawByID(ctx context.Context, id string, scope common_models.Scope) (map[string]interface{}, error)
}

// FactResolver builds the fact bundle for one event. The ticket is re-read
// from the store rather than trusted from the payload, so rules always see the
// current state; customer and company facts hang off the ticket document.
type FactResolver struct {
	tickets   TicketReader
	customers CustomerReader
	companies CompanyReader
	log       *zap.Logger
}

func NewFactResolver(tickets TicketReader, customers CustomerReader, companies CompanyReader, log *zap.Logger) *FactResolver {
	return &FactResolver{
		tickets:   tickets,
		customers: customers,
		companies: companies,
		log:       log,
	}
}

func (r *FactResolver) Resolve(ctx context.Context, payload map[string]interface{}, scope common_models.Scope) (Facts, error) {
	facts := Facts{}

	ticketPayload, _ := payload["ticket"].(map[string]interface{})
	if ticketPayload == nil {
		// Non-ticket events (customer/company lifecycle) carry their facts
		// directly in the payload.
		for _, resource := range []string{"customer", "company"} {
			if doc, ok := payload[resource].(map[string]interface{}); ok {
				facts[resource] = doc
			}
		}
		if len(facts) == 0 {
			return nil, fmt.Errorf("payload carries no resolvable resource")
		}
		return facts, nil
	}

	ticketID := fmt.Sprintf("%v", ticketPayload["id"])
	ticket, err := r.tickets.GetRawByID(ctx, ticketID, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ticket %s: %w", ticketID, err)
	}
	facts["ticket"] = ticket

	if customerID, ok := ticket["customer_id"].(string); ok && customerID != "" {
		customer, err := r.customers.GetRawByID(ctx, customerID, scope)
		if err != nil {
			r.log.Warn("failed to resolve customer fact", zap.String("customer_id", customerID), zap.Error(err))
		} else {
			facts["customer"] = customer
		}
	}

	if companyID, ok := ticket["company_id"].(string); ok && companyID != "" {
		company, err := r.companies.GetRawByID(ctx, companyID, scope)
		if err != nil {
			r.log.Warn("failed to resolve company fact", zap.String("company_id", companyID), zap.Error(err))
		} else {
			facts["company"] = company
		}
	}

	return facts, nil
}

// Engine ties the pipeline together for one consumed event: load linked
// workflows, evaluate each against the facts, and execute the matches.
type Engine struct {
	workflows WorkflowService
	resolver  *FactResolver
	executor  ActionExecutor
	audit     Auditor
	log       *zap.Logger
}

func NewEngine(workflows WorkflowService, resolver *FactResolver, executor ActionExecutor, audit Auditor, log *zap.Logger) *Engine {
	return &Engine{
		workflows: workflows,
		resolver:  resolver,
		executor:  executor,
		audit:     audit,
		log:       log,
	}
}

// HandleTrigger processes one published event end to end. A workflow that
// fails to evaluate is skipped with a warning; its siblings still run.
func (e *Engine) HandleTrigger(ctx context.Context, triggerID string, payload map[string]interface{}, scope common_models.Scope) error {
	workflows, err := e.workflows.LoadWorkflowsForTrigger(ctx, triggerID, scope)
	if err != nil {
		return fmt.Errorf("failed to load workflows for trigger %s: %w", triggerID, err)
	}
	if len(workflows) == 0 {
		return nil
	}

	facts, err := e.resolver.Resolve(ctx, payload, scope)
	if err != nil {
		return fmt.Errorf("failed to resolve facts for trigger %s: %w", triggerID, err)
	}

	for i := range workflows {
		wf := &workflows[i]
		if wf.Status != StatusActive {
			continue
		}

		matched := false
		if len(wf.Rules) == 0 {
			matched = wf.AlwaysRun
		} else {
			matched, err = EvaluateWorkflow(wf, facts)
			if err != nil {
				e.log.Warn("workflow evaluation failed",
					zap.String("workflow_id", wf.ID.Hex()),
					zap.String("trigger", triggerID),
					zap.Error(err))
				continue
			}
		}
		if !matched {
			continue
		}

		e.log.Info("workflow matched",
			zap.String("workflow_id", wf.ID.Hex()),
			zap.String("workflow", wf.Name),
			zap.String("trigger", triggerID))

		if err := e.executor.ExecuteActions(ctx, wf, facts, scope); err != nil {
			e.log.Error("workflow execution failed",
				zap.String("workflow_id", wf.ID.Hex()),
				zap.Error(err))
			continue
		}

		if e.audit != nil {
			e.audit.LogChange(ctx, common_models.AuditActionWorkflow, "workflows", wf.ID.Hex(), map[string]common_models.Change{
				"trigger": {New: triggerID},
			})
		}
	}

	return nil
}
