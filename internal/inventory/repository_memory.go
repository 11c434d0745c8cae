package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type InMemoryRepository struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{entries: make(map[string]*Entry)}
}

func (r *InMemoryRepository) SaveEntry(ctx context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *InMemoryRepository) FindEntry(ctx context.Context, id string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (r *InMemoryRepository) ListEntries(ctx context.Context) ([]*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]*Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		copied := *entry
		entries = append(entries, &copied)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Deduct holds the lock across the whole check-then-commit pair,
// so two orders racing for the same ingredient serialize here.
func (r *InMemoryRepository) Deduct(ctx context.Context, required map[string]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Phase 1: every entry must cover its demand.
	for id, need := range required {
		entry, ok := r.entries[id]
		if !ok {
			return ErrEntryNotFound
		}
		if entry.Quantity < need {
			return &InsufficientStockError{
				EntryID:   entry.ID,
				Name:      entry.Name,
				Required:  need,
				Available: entry.Quantity,
			}
		}
	}

	// Phase 2: commit.
	for id, need := range required {
		r.entries[id].Quantity -= need
	}
	return nil
}

func (r *InMemoryRepository) ResetAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		entry.Quantity = entry.Baseline
	}
	return nil
}
