package order

import (
	"context"
	"errors"
	"time"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrStatusConflict means the stored status no longer matched
	// the expected one when a transition was persisted.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// Repository defines the data-access contract. UpdateStatus is a
// compare-and-set: it persists the transition only while the
// stored status still equals expected, so two racing transitions
// cannot both succeed.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, orderID string, expected, next Status, at time.Time) error

	// UpdateStatusAndDeduct couples the status compare-and-set
	// with the stock decrements as one atomic unit: a status
	// conflict deducts nothing, and a shortage leaves the status
	// untouched. Racing cook-completions on the same order deduct
	// at most once, even across processes.
	UpdateStatusAndDeduct(ctx context.Context, orderID string, expected, next Status, at time.Time, required map[string]int) error

	Delete(ctx context.Context, id string) error
}

// StockDeducter is the slice of the inventory store an order
// repository needs for cook-completion. The inventory
// repositories satisfy it.
type StockDeducter interface {
	Deduct(ctx context.Context, required map[string]int) error
}
