package customer

import (
	"context"
	"testing"
	"time"
)

func seedCustomer(t *testing.T, repo *InMemoryRepository, orderCount int) *Customer {
	t.Helper()

	cust := &Customer{
		Email:      "vip@example.com",
		Name:       "Test Customer",
		Grade:      GradeBasic,
		OrderCount: orderCount,
	}
	if err := repo.Save(context.Background(), cust); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return cust
}

func TestFifteenthOrderPromotesToVIP(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewLoyaltyService(repo)
	cust := seedCustomer(t, repo, 14)

	if err := service.IncrementOrderCount(context.Background(), cust.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	after, _ := repo.FindByID(context.Background(), cust.ID)
	if after.OrderCount != 15 {
		t.Errorf("order count: got %d, want 15", after.OrderCount)
	}
	if after.Grade != GradeVIP {
		t.Errorf("grade: got %s, want VIP", after.Grade)
	}
	if after.VIPSince == nil {
		t.Error("vip_since should be set on promotion")
	}
}

func TestFourteenthOrderStaysBasic(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewLoyaltyService(repo)
	cust := seedCustomer(t, repo, 13)

	if err := service.IncrementOrderCount(context.Background(), cust.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	after, _ := repo.FindByID(context.Background(), cust.ID)
	if after.Grade != GradeBasic {
		t.Errorf("grade: got %s, want BASIC", after.Grade)
	}
}

func TestExpiredVIPIsDemotedOnEligibilityQuery(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewLoyaltyService(repo)

	since := time.Now().AddDate(0, -2, 0)
	cust := &Customer{
		Email:      "old-vip@example.com",
		Name:       "Lapsed VIP",
		Grade:      GradeVIP,
		OrderCount: 20,
		VIPSince:   &since,
	}
	if err := repo.Save(context.Background(), cust); err != nil {
		t.Fatalf("seed: %v", err)
	}

	eligible, err := service.IsVipDiscountEligible(context.Background(), cust.ID)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if eligible {
		t.Error("lapsed VIP should not be eligible")
	}

	// Demotion is persisted: count reset, grade back to BASIC.
	after, _ := repo.FindByID(context.Background(), cust.ID)
	if after.Grade != GradeBasic {
		t.Errorf("grade: got %s, want BASIC", after.Grade)
	}
	if after.OrderCount != 0 {
		t.Errorf("order count: got %d, want 0", after.OrderCount)
	}
	if after.VIPSince != nil {
		t.Error("vip_since should be cleared")
	}
}

func TestActiveVIPKeepsDiscount(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewLoyaltyService(repo)

	since := time.Now().AddDate(0, 0, -10)
	cust := &Customer{
		Email:      "active-vip@example.com",
		Name:       "Active VIP",
		Grade:      GradeVIP,
		OrderCount: 16,
		VIPSince:   &since,
	}
	if err := repo.Save(context.Background(), cust); err != nil {
		t.Fatalf("seed: %v", err)
	}

	eligible, err := service.IsVipDiscountEligible(context.Background(), cust.ID)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if !eligible {
		t.Error("VIP inside the window should be eligible")
	}
}

func TestExpiryDiscardsProgressBeforeCounting(t *testing.T) {
	repo := NewInMemoryRepository()
	service := NewLoyaltyService(repo)

	since := time.Now().AddDate(0, -2, 0)
	cust := &Customer{
		Email:      "lapsed@example.com",
		Name:       "Lapsed VIP",
		Grade:      GradeVIP,
		OrderCount: 20,
		VIPSince:   &since,
	}
	if err := repo.Save(context.Background(), cust); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A new delivered order after expiry starts over at 1.
	if err := service.IncrementOrderCount(context.Background(), cust.ID); err != nil {
		t.Fatalf("increment: %v", err)
	}

	after, _ := repo.FindByID(context.Background(), cust.ID)
	if after.OrderCount != 1 {
		t.Errorf("order count: got %d, want 1", after.OrderCount)
	}
	if after.Grade != GradeBasic {
		t.Errorf("grade: got %s, want BASIC", after.Grade)
	}
}
