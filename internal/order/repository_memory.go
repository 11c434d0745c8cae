package order

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*Order
	stock  StockDeducter
}

func NewInMemoryRepository(stock StockDeducter) *InMemoryRepository {
	return &InMemoryRepository{orders: make(map[string]*Order), stock: stock}
}

func (r *InMemoryRepository) Create(ctx context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	r.orders[order.ID] = deepCopy(order)
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return deepCopy(o), nil
}

func (r *InMemoryRepository) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []*Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			orders = append(orders, deepCopy(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].RequestedAt.Before(orders[j].RequestedAt)
	})
	return orders, nil
}

func (r *InMemoryRepository) UpdateStatus(ctx context.Context, orderID string, expected, next Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.updateStatusLocked(orderID, expected, next, at)
}

// UpdateStatusAndDeduct holds the repository lock across the
// status check and the stock deduction, so a second writer that
// lost the race sees the conflict before any stock moves, and a
// shortage never flips the status.
func (r *InMemoryRepository) UpdateStatusAndDeduct(ctx context.Context, orderID string, expected, next Status, at time.Time, required map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != expected {
		return ErrStatusConflict
	}

	if len(required) > 0 {
		if err := r.stock.Deduct(ctx, required); err != nil {
			return err
		}
	}
	return r.updateStatusLocked(orderID, expected, next, at)
}

func (r *InMemoryRepository) updateStatusLocked(orderID string, expected, next Status, at time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if o.Status != expected {
		return ErrStatusConflict
	}

	o.Status = next
	stamp := at
	switch next {
	case StatusCooking:
		o.CookingAt = &stamp
	case StatusCooked:
		o.CookedAt = &stamp
	case StatusDelivering:
		o.DeliveringAt = &stamp
	case StatusDone:
		o.DoneAt = &stamp
	case StatusCanceled:
		o.CanceledAt = &stamp
	}
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func deepCopy(o *Order) *Order {
	copied := *o
	copied.Items = make([]Item, len(o.Items))
	for i, item := range o.Items {
		copied.Items[i] = item
		copied.Items[i].Options = append([]ItemOption(nil), item.Options...)
	}
	return &copied
}
