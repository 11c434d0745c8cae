package order

import (
	"fmt"
	"time"
)

// Status is the delivery state of an order. Transitions are
// strictly linear with no skipping and no way out of DONE.
type Status string

const (
	StatusRequested  Status = "REQUESTED"
	StatusCooking    Status = "COOKING"
	StatusCooked     Status = "COOKED"
	StatusDelivering Status = "DELIVERING"
	StatusDone       Status = "DONE"

	// StatusCanceled is reachable only through an injected
	// CancellationPolicy; no default path leads here.
	StatusCanceled Status = "CANCELED"
)

// InvalidTransitionError reports a transition attempted from the
// wrong state. The order is left untouched when it fires.
type InvalidTransitionError struct {
	Required Status
	Actual   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order must be %s to transition, but is %s", e.Required, e.Actual)
}

// Order is created from a cart snapshot at checkout. Items carry
// price-at-time-of-order; later catalog or cart changes never
// reach a placed order.
type Order struct {
	ID           string     `json:"id"`
	CustomerID   string     `json:"customer_id"`
	Address      string     `json:"address"`
	PaymentRef   string     `json:"payment_ref"`
	DeliveryTime time.Time  `json:"delivery_time"`
	Items        []Item     `json:"items"`
	Total        int        `json:"total"`
	PayableTotal int        `json:"payable_total"`
	VIPDiscount  bool       `json:"vip_discount"`
	Status       Status     `json:"status"`
	RequestedAt  time.Time  `json:"requested_at"`
	CookingAt    *time.Time `json:"cooking_at,omitempty"`
	CookedAt     *time.Time `json:"cooked_at,omitempty"`
	DeliveringAt *time.Time `json:"delivering_at,omitempty"`
	DoneAt       *time.Time `json:"done_at,omitempty"`
	CanceledAt   *time.Time `json:"canceled_at,omitempty"`
}

// Item is an order line snapshotted from a cart item. All prices
// are the values in force when the order was placed.
type Item struct {
	ID         string       `json:"id"`
	MenuID     string       `json:"menu_id"`
	MenuName   string       `json:"menu_name"`
	MenuPrice  int          `json:"menu_price"`
	StyleID    string       `json:"style_id"`
	StyleName  string       `json:"style_name"`
	StylePrice int          `json:"style_price"`
	Quantity   int          `json:"quantity"`
	UnitPrice  int          `json:"unit_price"`
	LineTotal  int          `json:"line_total"`
	Options    []ItemOption `json:"options"`
}

// ItemOption snapshots an option selection with its pricing and
// stock consumption at order time.
type ItemOption struct {
	OptionID           string `json:"option_id"`
	Name               string `json:"name"`
	Quantity           int    `json:"quantity"`
	UnitPrice          int    `json:"unit_price"`
	DefaultQty         int    `json:"default_qty"`
	InventoryID        string `json:"inventory_id,omitempty"`
	ConsumptionPerUnit int    `json:"consumption_per_unit"`
}

// guard checks the single legal predecessor of a transition.
func (o *Order) guard(required Status) error {
	if o.Status != required {
		return &InvalidTransitionError{Required: required, Actual: o.Status}
	}
	return nil
}

func (o *Order) startCooking(now time.Time) error {
	if err := o.guard(StatusRequested); err != nil {
		return err
	}
	o.Status = StatusCooking
	o.CookingAt = &now
	return nil
}

func (o *Order) completeCooking(now time.Time) error {
	if err := o.guard(StatusCooking); err != nil {
		return err
	}
	o.Status = StatusCooked
	o.CookedAt = &now
	return nil
}

func (o *Order) startDelivering(now time.Time) error {
	if err := o.guard(StatusCooked); err != nil {
		return err
	}
	o.Status = StatusDelivering
	o.DeliveringAt = &now
	return nil
}

func (o *Order) completeDelivery(now time.Time) error {
	if err := o.guard(StatusDelivering); err != nil {
		return err
	}
	o.Status = StatusDone
	o.DoneAt = &now
	return nil
}
