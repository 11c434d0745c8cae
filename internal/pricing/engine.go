package pricing

import (
	"github.com/Dinnervery/Backend-sub000/internal/catalog"
)

// Policy carries the externally configured pricing knobs: the VIP
// discount rate and name-keyed special prices that supersede a
// menu's stored base price at quote time.
type Policy struct {
	VipDiscountRatePercent int
	SpecialPrices          map[string]int
}

// OptionSelection pairs a resolved catalog option with the
// quantity the customer picked for it.
type OptionSelection struct {
	Option      *catalog.MenuOption
	SelectedQty int
}

// Quote is the result of pricing a single order line.
type Quote struct {
	UnitPrice int
	LineTotal int
}

// OptionExtraCost bills only quantity above the option's default:
// the default units are already part of the menu price, and going
// below default never refunds.
func OptionExtraCost(option *catalog.MenuOption, selectedQty int) int {
	extra := selectedQty - option.DefaultQty
	if extra < 0 {
		extra = 0
	}
	return extra * option.UnitPrice
}

// BasePrice resolves the effective base price of a menu, applying
// a special-price override when one is configured for its name.
func (p Policy) BasePrice(menu *catalog.Menu) int {
	if override, ok := p.SpecialPrices[menu.Name]; ok {
		return override
	}
	return menu.Price
}

// PriceLine prices one line: base + style delta + option extras,
// multiplied by the line quantity.
func (p Policy) PriceLine(
	menu *catalog.Menu,
	style *catalog.ServingStyle,
	quantity int,
	selections []OptionSelection,
) Quote {

	unit := p.BasePrice(menu) + style.ExtraPrice
	for _, sel := range selections {
		unit += OptionExtraCost(sel.Option, sel.SelectedQty)
	}

	return Quote{
		UnitPrice: unit,
		LineTotal: unit * quantity,
	}
}

// ApplyVipDiscount discounts an order total once, truncating
// toward zero. Callers decide eligibility; a zero rate is a no-op.
func (p Policy) ApplyVipDiscount(total int) int {
	if p.VipDiscountRatePercent <= 0 {
		return total
	}
	return total * (100 - p.VipDiscountRatePercent) / 100
}
