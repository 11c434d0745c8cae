package catalog

import "time"

// Menu is a sellable dish. Price is in whole currency units
// and must never change once an order references the menu.
type Menu struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ServingStyle is a presentation tier added on top of a menu.
// Deactivated styles stay valid on historical orders but cannot
// be picked for new cart items.
type ServingStyle struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExtraPrice int    `json:"extra_price"`
	Active     bool   `json:"active"`
}

// MenuOption is an add-on belonging to exactly one menu.
// DefaultQty units are already included in the menu price; only
// quantity above DefaultQty is billed at UnitPrice.
//
// InventoryID links the option to a stock ledger entry. An empty
// InventoryID means the option consumes no tracked stock.
type MenuOption struct {
	ID                 string `json:"id"`
	MenuID             string `json:"menu_id"`
	Name               string `json:"name"`
	UnitPrice          int    `json:"unit_price"`
	DefaultQty         int    `json:"default_qty"`
	InventoryID        string `json:"inventory_id,omitempty"`
	ConsumptionPerUnit int    `json:"consumption_per_unit"`
}
