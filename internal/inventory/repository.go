package inventory

import "context"

// Repository defines the data-access contract. Deduct must be
// atomic: all rows checked and decremented as one unit, or none.
type Repository interface {
	SaveEntry(ctx context.Context, entry *Entry) error
	FindEntry(ctx context.Context, id string) (*Entry, error)
	ListEntries(ctx context.Context) ([]*Entry, error)

	// Deduct takes required units per entry id. It fails with
	// *InsufficientStockError before touching any row if a single
	// entry cannot cover its demand.
	Deduct(ctx context.Context, required map[string]int) error

	// ResetAll restores every entry to its baseline quantity.
	ResetAll(ctx context.Context) error
}
