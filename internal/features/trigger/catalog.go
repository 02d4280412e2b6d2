package trigger

// Well-known trigger ids. Publishers reference these constants; anything else
// passed to a publisher is treated as a raw passthrough event type.
const (
	TicketCreated         = "ticket_created"
	TicketUpdated         = "ticket_updated"
	TicketClosed          = "ticket_closed"
	TicketAssigned        = "ticket_assigned"
	TicketPriorityChanged = "ticket_priority_changed"
	TicketSLADue          = "ticket_sla_due"

	NewMessage    = "new_message"
	CustomerReply = "customer_reply"
	NoteAdded     = "note_added"

	CustomerCreated = "customer_created"
	CustomerUpdated = "customer_updated"

	CompanyCreated = "company_created"
	CompanyUpdated = "company_updated"
)

const (
	CategoryTicket       = "Ticket Events"
	CategoryConversation = "Conversation Events"
	CategoryCustomer     = "Customer Events"
	CategoryCompany      = "Company Events"
	CategorySystem       = "System Events"
)

// catalog is ordered for stable export; byID is the lookup index.
var catalog = []Trigger{
	{ID: TicketCreated, Name: "Ticket Created", Description: "A new ticket was created", Category: CategoryTicket, EventType: "ticket.created", EntityType: "ticket"},
	{ID: TicketUpdated, Name: "Ticket Updated", Description: "A ticket's fields were updated", Category: CategoryTicket, EventType: "ticket.updated", EntityType: "ticket"},
	{ID: TicketClosed, Name: "Ticket Closed", Description: "A ticket was moved to the closed status", Category: CategoryTicket, EventType: "ticket.closed", EntityType: "ticket"},
	{ID: TicketAssigned, Name: "Ticket Assigned", Description: "A ticket was assigned to a teammate", Category: CategoryTicket, EventType: "ticket.assigned", EntityType: "ticket"},
	{ID: TicketPriorityChanged, Name: "Ticket Priority Changed", Description: "A ticket's priority changed", Category: CategoryTicket, EventType: "ticket.priority_changed", EntityType: "ticket"},
	{ID: NewMessage, Name: "New Message", Description: "A message was added to a conversation", Category: CategoryConversation, EventType: "conversation.message.created", EntityType: "conversation"},
	{ID: CustomerReply, Name: "Customer Reply", Description: "A customer replied on a conversation", Category: CategoryConversation, EventType: "conversation.customer.replied", EntityType: "conversation"},
	{ID: NoteAdded, Name: "Note Added", Description: "An internal note was added to a conversation", Category: CategoryConversation, EventType: "conversation.note.created", EntityType: "conversation"},
	{ID: CustomerCreated, Name: "Customer Created", Description: "A new customer profile was created", Category: CategoryCustomer, EventType: "customer.created", EntityType: "customer"},
	{ID: CustomerUpdated, Name: "Customer Updated", Description: "A customer profile was updated", Category: CategoryCustomer, EventType: "customer.updated", EntityType: "customer"},
	{ID: CompanyCreated, Name: "Company Created", Description: "A new company was created", Category: CategoryCompany, EventType: "company.created", EntityType: "company"},
	{ID: CompanyUpdated, Name: "Company Updated", Description: "A company was updated", Category: CategoryCompany, EventType: "company.updated", EntityType: "company"},
	{ID: TicketSLADue, Name: "Ticket SLA Due", Description: "A ticket crossed its SLA due date", Category: CategorySystem, EventType: "ticket.sla_due", EntityType: "ticket"},
}

var byID = func() map[string]Trigger {
	m := make(map[string]Trigger, len(catalog))
	for _, t := range catalog {
		m[t.ID] = t
	}
	return m
}()

// GetTriggerByID returns nil for unknown ids. Callers branch on nil and fall
// back to treating the raw id as a passthrough event type.
func GetTriggerByID(id string) *Trigger {
	if t, ok := byID[id]; ok {
		return &t
	}
	return nil
}

func IsValidTrigger(id string) bool {
	_, ok := byID[id]
	return ok
}

// GetEventTypeByTriggerID resolves the dotted wire event type. Empty string
// for unknown ids.
func GetEventTypeByTriggerID(id string) string {
	if t, ok := byID[id]; ok {
		return t.EventType
	}
	return ""
}

func GetEntityTypeByTriggerID(id string) string {
	if t, ok := byID[id]; ok {
		return t.EntityType
	}
	return ""
}

func ListAllTriggers() []Trigger {
	out := make([]Trigger, len(catalog))
	copy(out, catalog)
	return out
}

func ListTriggerCategories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range catalog {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

// CatalogByCategory groups the catalog for the workflow builder UI.
func CatalogByCategory() []CategoryGroup {
	var out []CategoryGroup
	index := make(map[string]int)
	for _, t := range catalog {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, CategoryGroup{Category: t.Category})
		}
		out[i].Triggers = append(out[i].Triggers, t)
	}
	return out
}
