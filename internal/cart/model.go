package cart

// Cart is a customer's mutable pre-checkout basket, at most one
// per customer. Items own their options by value; the total is
// always derived from the items, never stored authoritatively.
type Cart struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Items      []Item `json:"items"`
}

type Item struct {
	ID        string       `json:"id"`
	MenuID    string       `json:"menu_id"`
	MenuName  string       `json:"menu_name"`
	StyleID   string       `json:"style_id"`
	StyleName string       `json:"style_name"`
	Quantity  int          `json:"quantity"`
	UnitPrice int          `json:"unit_price"`
	LineTotal int          `json:"line_total"`
	Options   []ItemOption `json:"options"`
}

type ItemOption struct {
	OptionID string `json:"option_id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Total recomputes the cart total from the current line totals.
func (c *Cart) Total() int {
	total := 0
	for _, item := range c.Items {
		total += item.LineTotal
	}
	return total
}

func (c *Cart) findItem(itemID string) *Item {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) removeItem(itemID string) bool {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}
