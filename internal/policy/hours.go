package policy

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

var (
	ErrClosed              = errors.New("outside business hours")
	ErrPastLastOrder       = errors.New("past last-order time")
	ErrInvalidDeliveryTime = errors.New("invalid delivery time")
)

// Hours holds the externally configured ordering gates. All
// "HH:MM" fields are minutes-of-day in local time.
type Hours struct {
	OpenTime                string
	CloseTime               string
	LastOrderTime           string
	MinLeadMinutes          int
	DeliveryWindowStart     string
	DeliveryWindowEnd       string
	DeliveryTimeUnitMinutes int
}

// DefaultHours mirrors the production configuration: open
// 10:00-22:00, last order 21:00, deliveries 16:00-22:00 in
// 30-minute steps with at least 2 hours of lead time.
func DefaultHours() Hours {
	return Hours{
		OpenTime:                "10:00",
		CloseTime:               "22:00",
		LastOrderTime:           "21:00",
		MinLeadMinutes:          120,
		DeliveryWindowStart:     "16:00",
		DeliveryWindowEnd:       "22:00",
		DeliveryTimeUnitMinutes: 30,
	}
}

// HoursFromEnv overlays env vars on the defaults.
func HoursFromEnv() Hours {
	h := DefaultHours()

	if v := os.Getenv("OPEN_TIME"); v != "" {
		h.OpenTime = v
	}
	if v := os.Getenv("CLOSE_TIME"); v != "" {
		h.CloseTime = v
	}
	if v := os.Getenv("LAST_ORDER_TIME"); v != "" {
		h.LastOrderTime = v
	}
	if v := os.Getenv("MIN_LEAD_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			h.MinLeadMinutes = n
		}
	}
	if v := os.Getenv("DELIVERY_WINDOW_START"); v != "" {
		h.DeliveryWindowStart = v
	}
	if v := os.Getenv("DELIVERY_WINDOW_END"); v != "" {
		h.DeliveryWindowEnd = v
	}
	if v := os.Getenv("DELIVERY_TIME_UNIT_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			h.DeliveryTimeUnitMinutes = n
		}
	}

	return h
}

// minuteOfDay parses "HH:MM"; a malformed value is a config bug
// and reads as 0.
func minuteOfDay(hhmm string) int {
	var hh, mm int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &hh, &mm); err != nil {
		return 0
	}
	return hh*60 + mm
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsOpen reports whether ordering is open at the given moment.
func (h Hours) IsOpen(now time.Time) bool {
	m := clockMinutes(now)
	return m >= minuteOfDay(h.OpenTime) && m < minuteOfDay(h.CloseTime)
}

// IsPastLastOrder reports whether the last-order cutoff has passed.
func (h Hours) IsPastLastOrder(now time.Time) bool {
	return clockMinutes(now) >= minuteOfDay(h.LastOrderTime)
}

// ValidateDeliveryTime checks a requested delivery time: it must
// align to the configured unit, respect the minimum lead time,
// and fall inside the delivery window.
func (h Hours) ValidateDeliveryTime(now, deliveryAt time.Time) error {
	if deliveryAt.Second() != 0 {
		return fmt.Errorf("%w: must fall on a whole minute", ErrInvalidDeliveryTime)
	}
	// A unit of 0 or less means no alignment grid is configured.
	if h.DeliveryTimeUnitMinutes > 0 && deliveryAt.Minute()%h.DeliveryTimeUnitMinutes != 0 {
		return fmt.Errorf("%w: must align to %d-minute steps", ErrInvalidDeliveryTime, h.DeliveryTimeUnitMinutes)
	}

	if deliveryAt.Before(now.Add(time.Duration(h.MinLeadMinutes) * time.Minute)) {
		return fmt.Errorf("%w: needs at least %d minutes of lead time", ErrInvalidDeliveryTime, h.MinLeadMinutes)
	}

	m := clockMinutes(deliveryAt)
	if m < minuteOfDay(h.DeliveryWindowStart) || m > minuteOfDay(h.DeliveryWindowEnd) {
		return fmt.Errorf("%w: outside delivery window %s-%s",
			ErrInvalidDeliveryTime, h.DeliveryWindowStart, h.DeliveryWindowEnd)
	}

	return nil
}

// CheckOrderable bundles the two creation gates.
func (h Hours) CheckOrderable(now time.Time) error {
	if !h.IsOpen(now) {
		return ErrClosed
	}
	if h.IsPastLastOrder(now) {
		return ErrPastLastOrder
	}
	return nil
}
