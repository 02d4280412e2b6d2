package ticket

import (
	"context"
	"fmt"

	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"go.uber.org/zap"
)

// AutomationTrigger is the entry point of the workflow engine, narrowed to
// what the consumer needs.
type AutomationTrigger interface {
	HandleTrigger(ctx context.Context, triggerID string, payload map[string]interface{}, scope common_models.Scope) error
}

// scopeFromData recovers the tenant scope the publisher attached.
func scopeFromData(data map[string]interface{}) (common_models.Scope, error) {
	workspaceID, _ := data["workspace_id"].(string)
	clientID, _ := data["client_id"].(string)
	if workspaceID == "" || clientID == "" {
		return common_models.Scope{}, fmt.Errorf("event payload is missing tenant scope")
	}
	return common_models.Scope{WorkspaceID: workspaceID, ClientID: clientID}, nil
}

// NewTicketConsumer binds every ticket lifecycle trigger to the workflow
// engine on the ticket_events queue.
func NewTicketConsumer(bus *event.Bus, engine AutomationTrigger, log *zap.Logger) *event.Consumer {
	handle := func(triggerID string) event.Handler {
		return func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			scope, err := scopeFromData(data)
			if err != nil {
				return nil, err
			}
			return nil, engine.HandleTrigger(ctx, triggerID, data, scope)
		}
	}

	handlers := map[string]event.Handler{
		trigger.TicketCreated:         handle(trigger.TicketCreated),
		trigger.TicketUpdated:         handle(trigger.TicketUpdated),
		trigger.TicketClosed:          handle(trigger.TicketClosed),
		trigger.TicketAssigned:        handle(trigger.TicketAssigned),
		trigger.TicketPriorityChanged: handle(trigger.TicketPriorityChanged),
		trigger.TicketSLADue:          handle(trigger.TicketSLADue),
	}

	return event.NewConsumer(bus, "ticket_events", handlers, log)
}
