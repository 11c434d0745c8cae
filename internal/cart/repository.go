package cart

import "context"

// Repository defines the data-access contract. Carts are keyed
// 1:1 by customer.
type Repository interface {
	Save(ctx context.Context, cart *Cart) error
	FindByCustomer(ctx context.Context, customerID string) (*Cart, error)
	DeleteByCustomer(ctx context.Context, customerID string) error
}
