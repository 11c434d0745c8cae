package inventory

// Entry is one tracked ingredient. Quantity is the units still
// available today; Baseline is what the daily reset restores.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Baseline int    `json:"baseline"`
}

// Demand is one option's stock requirement inside an order:
// required units = ConsumptionPerUnit * selected quantity. An
// empty EntryID means the option consumes no tracked stock and
// the demand is skipped.
type Demand struct {
	EntryID  string
	Required int
}
