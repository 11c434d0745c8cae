package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[string]*Cart)}
}

func (r *InMemoryRepository) Save(ctx context.Context, cart *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	r.carts[cart.CustomerID] = deepCopy(cart)
	return nil
}

func (r *InMemoryRepository) FindByCustomer(ctx context.Context, customerID string) (*Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[customerID]
	if !ok {
		return nil, errors.New("cart not found")
	}
	return deepCopy(cart), nil
}

func (r *InMemoryRepository) DeleteByCustomer(ctx context.Context, customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, customerID)
	return nil
}

// deepCopy protects stored carts from aliasing with carts handed
// to callers; orders snapshot from these copies.
func deepCopy(cart *Cart) *Cart {
	copied := &Cart{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		Items:      make([]Item, len(cart.Items)),
	}
	for i, item := range cart.Items {
		copied.Items[i] = item
		copied.Items[i].Options = append([]ItemOption(nil), item.Options...)
	}
	return copied
}
