package customer

import (
	"context"
	"errors"
	"time"
)

var ErrCustomerNotFound = errors.New("customer not found")

// LoyaltyService mediates every grade decision through the
// repository so lazy VIP expiry is persisted when it fires.
type LoyaltyService struct {
	repo Repository
	now  func() time.Time
}

func NewLoyaltyService(repo Repository) *LoyaltyService {
	return &LoyaltyService{repo: repo, now: time.Now}
}

func (s *LoyaltyService) Get(ctx context.Context, id string) (*Customer, error) {
	cust, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return cust, nil
}

// IncrementOrderCount records one delivered order. Called exactly
// once per order, from the terminal delivery transition.
func (s *LoyaltyService) IncrementOrderCount(ctx context.Context, customerID string) error {
	cust, err := s.Get(ctx, customerID)
	if err != nil {
		return err
	}

	cust.RecordDeliveredOrder(s.now())
	return s.repo.Save(ctx, cust)
}

// IsVipDiscountEligible runs lazy expiry and persists a demotion
// before answering, so an expired VIP is demoted even if they
// never order again.
func (s *LoyaltyService) IsVipDiscountEligible(ctx context.Context, customerID string) (bool, error) {
	cust, err := s.Get(ctx, customerID)
	if err != nil {
		return false, err
	}

	before := cust.Grade
	eligible := cust.IsVipDiscountEligible(s.now())

	if cust.Grade != before {
		if err := s.repo.Save(ctx, cust); err != nil {
			return false, err
		}
	}
	return eligible, nil
}
