package inventory

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --------------------------------------------------
// Single-option checks
// --------------------------------------------------

// CheckStock verifies one demand without deducting. Demands with
// no linked ledger entry are a no-op.
func (s *Service) CheckStock(ctx context.Context, d Demand) error {
	if d.EntryID == "" || d.Required <= 0 {
		return nil
	}

	entry, err := s.repo.FindEntry(ctx, d.EntryID)
	if err != nil {
		return ErrEntryNotFound
	}

	if entry.Quantity < d.Required {
		return &InsufficientStockError{
			EntryID:   entry.ID,
			Name:      entry.Name,
			Required:  d.Required,
			Available: entry.Quantity,
		}
	}
	return nil
}

// DeductStock commits one demand. Callers that need all-or-nothing
// across several demands must use Consume instead.
func (s *Service) DeductStock(ctx context.Context, d Demand) error {
	if d.EntryID == "" || d.Required <= 0 {
		return nil
	}
	return s.repo.Deduct(ctx, map[string]int{d.EntryID: d.Required})
}

// --------------------------------------------------
// Order-level two-phase consumption
// --------------------------------------------------

// Aggregate sums demands per ledger entry, dropping untracked
// and non-positive ones. The result feeds Deduct.
func Aggregate(demands []Demand) map[string]int {
	required := make(map[string]int)
	for _, d := range demands {
		if d.EntryID == "" || d.Required <= 0 {
			continue
		}
		required[d.EntryID] += d.Required
	}
	return required
}

// Consume aggregates an order's demands per ledger entry and
// commits them as one unit: every demand is checked before any
// row is decremented, so a shortage anywhere deducts nothing.
func (s *Service) Consume(ctx context.Context, demands []Demand) error {
	required := Aggregate(demands)
	if len(required) == 0 {
		return nil
	}
	return s.repo.Deduct(ctx, required)
}

// --------------------------------------------------
// Admin / scheduled operations
// --------------------------------------------------
func (s *Service) ResetAll(ctx context.Context) error {
	return s.repo.ResetAll(ctx)
}

func (s *Service) ListEntries(ctx context.Context) ([]*Entry, error) {
	return s.repo.ListEntries(ctx)
}

func (s *Service) CreateEntry(ctx context.Context, name string, baseline int) (*Entry, error) {
	if name == "" {
		return nil, errors.New("ingredient name is required")
	}
	if baseline < 0 {
		return nil, errors.New("baseline must not be negative")
	}

	entry := &Entry{Name: name, Quantity: baseline, Baseline: baseline}
	if err := s.repo.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
