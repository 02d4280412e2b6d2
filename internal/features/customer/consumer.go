package customer

import (
	"context"
	"fmt"

	common_models "go-desk/internal/common/models"
	"go-desk/internal/features/event"
	"go-desk/internal/features/trigger"

	"go.uber.org/zap"
)

type AutomationTrigger interface {
	HandleTrigger(ctx context.Context, triggerID string, payload map[string]interface{}, scope common_models.Scope) error
}

// NewCustomerConsumer binds customer lifecycle triggers to the workflow
// engine on the customer_events queue.
func NewCustomerConsumer(bus *event.Bus, engine AutomationTrigger, log *zap.Logger) *event.Consumer {
	handle := func(triggerID string) event.Handler {
		return func(ctx context.Context, data map[string]interface{}) (interface{}, error) {
			workspaceID, _ := data["workspace_id"].(string)
			clientID, _ := data["client_id"].(string)
			if workspaceID == "" || clientID == "" {
				return nil, fmt.Errorf("event payload is missing tenant scope")
			}
			scope := common_models.Scope{WorkspaceID: workspaceID, ClientID: clientID}
			return nil, engine.HandleTrigger(ctx, triggerID, data, scope)
		}
	}

	handlers := map[string]event.Handler{
		trigger.CustomerCreated: handle(trigger.CustomerCreated),
		trigger.CustomerUpdated: handle(trigger.CustomerUpdated),
	}

	return event.NewConsumer(bus, "customer_events", handlers, log)
}
