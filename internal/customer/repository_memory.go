package customer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu        sync.RWMutex
	customers map[string]*Customer
	byEmail   map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		customers: make(map[string]*Customer),
		byEmail:   make(map[string]string),
	}
}

func (r *InMemoryRepository) Save(ctx context.Context, customer *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
		customer.CreatedAt = time.Now()
	}
	copied := *customer
	r.customers[customer.ID] = &copied
	r.byEmail[customer.Email] = customer.ID
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cust, ok := r.customers[id]
	if !ok {
		return nil, errors.New("customer not found")
	}
	copied := *cust
	return &copied, nil
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, errors.New("customer not found")
	}
	copied := *r.customers[id]
	return &copied, nil
}

func (r *InMemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}
