package policy

import (
	"errors"
	"testing"
	"time"
)

func at(hh, mm int) time.Time {
	return time.Date(2025, 2, 14, hh, mm, 0, 0, time.Local)
}

func TestIsOpenBoundaries(t *testing.T) {
	h := DefaultHours()

	cases := []struct {
		now  time.Time
		want bool
	}{
		{at(9, 59), false},
		{at(10, 0), true},
		{at(21, 59), true},
		{at(22, 0), false},
	}

	for _, tc := range cases {
		if got := h.IsOpen(tc.now); got != tc.want {
			t.Errorf("IsOpen at %s: got %v, want %v", tc.now.Format("15:04"), got, tc.want)
		}
	}
}

func TestIsPastLastOrder(t *testing.T) {
	h := DefaultHours()

	if h.IsPastLastOrder(at(20, 59)) {
		t.Error("20:59 should not be past last order")
	}
	if !h.IsPastLastOrder(at(21, 0)) {
		t.Error("21:00 should be past last order")
	}
}

func TestValidateDeliveryTime(t *testing.T) {
	h := DefaultHours()
	now := at(12, 0)

	if err := h.ValidateDeliveryTime(now, at(18, 30)); err != nil {
		t.Errorf("18:30 should be valid: %v", err)
	}

	// Not aligned to 30-minute steps.
	if err := h.ValidateDeliveryTime(now, at(18, 15)); !errors.Is(err, ErrInvalidDeliveryTime) {
		t.Errorf("18:15 should fail alignment, got %v", err)
	}

	// Less than 2 hours of lead time.
	if err := h.ValidateDeliveryTime(at(17, 0), at(18, 30)); !errors.Is(err, ErrInvalidDeliveryTime) {
		t.Errorf("90-minute lead should fail, got %v", err)
	}

	// Outside the delivery window.
	if err := h.ValidateDeliveryTime(now, at(15, 0)); !errors.Is(err, ErrInvalidDeliveryTime) {
		t.Errorf("15:00 should fall outside window, got %v", err)
	}
}

// The zero value carries no alignment grid; validation must
// still run without dividing by zero.
func TestValidateDeliveryTimeZeroValueHours(t *testing.T) {
	var h Hours
	now := at(12, 0)

	if err := h.ValidateDeliveryTime(now, at(18, 10)); !errors.Is(err, ErrInvalidDeliveryTime) {
		t.Errorf("zero-value hours should reject via the window check, got %v", err)
	}
}

func TestCheckOrderable(t *testing.T) {
	h := DefaultHours()

	if err := h.CheckOrderable(at(12, 0)); err != nil {
		t.Errorf("noon should be orderable: %v", err)
	}
	if err := h.CheckOrderable(at(8, 0)); !errors.Is(err, ErrClosed) {
		t.Errorf("08:00 should be closed, got %v", err)
	}
	if err := h.CheckOrderable(at(21, 30)); !errors.Is(err, ErrPastLastOrder) {
		t.Errorf("21:30 should be past last order, got %v", err)
	}
}
