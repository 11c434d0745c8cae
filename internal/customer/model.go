package customer

import "time"

type Grade string

const (
	GradeBasic Grade = "BASIC"
	GradeVIP   Grade = "VIP"
)

// VIP status unlocks at vipThreshold delivered orders and lasts
// vipWindow from the moment it was granted. An expired window
// throws away the accumulated count entirely.
const vipThreshold = 15

func vipWindow(since time.Time) time.Time {
	return since.AddDate(0, 1, 0)
}

// Customer is the domain entity. Password holds the bcrypt hash,
// never the plain text.
type Customer struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Role       string     `json:"role"`
	OrderCount int        `json:"order_count"`
	Grade      Grade      `json:"grade"`
	VIPSince   *time.Time `json:"vip_since,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// expireVIP demotes a customer whose VIP window has lapsed,
// discarding the order count. Runs before every grade decision so
// demotion happens lazily even without a new order.
func (c *Customer) expireVIP(now time.Time) {
	if c.VIPSince == nil {
		return
	}
	if now.After(vipWindow(*c.VIPSince)) {
		c.OrderCount = 0
		c.Grade = GradeBasic
		c.VIPSince = nil
	}
}

// RecordDeliveredOrder bumps the order count and recomputes the
// grade. Called exactly once per order, on the DONE transition.
func (c *Customer) RecordDeliveredOrder(now time.Time) {
	c.expireVIP(now)
	c.OrderCount++
	c.recomputeGrade(now)
}

func (c *Customer) recomputeGrade(now time.Time) {
	if c.OrderCount >= vipThreshold {
		c.Grade = GradeVIP
		if c.VIPSince == nil {
			since := now
			c.VIPSince = &since
		}
		return
	}
	c.Grade = GradeBasic
	c.VIPSince = nil
}

// IsVipDiscountEligible answers the pricing engine's eligibility
// query, applying lazy expiry first. The current rule grants the
// discount on every order while VIP.
func (c *Customer) IsVipDiscountEligible(now time.Time) bool {
	c.expireVIP(now)
	return c.Grade == GradeVIP
}
