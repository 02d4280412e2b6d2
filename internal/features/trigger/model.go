package trigger

// Trigger is a catalog-defined, stable identifier for a kind of business
// event. The catalog is compiled in and never mutated at runtime.
type Trigger struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	EventType   string `json:"event_type"`
	EntityType  string `json:"entity_type,omitempty"`
}

// CategoryGroup is the catalog export shape consumed by the workflow builder.
type CategoryGroup struct {
	Category string    `json:"category"`
	Triggers []Trigger `json:"triggers"`
}
