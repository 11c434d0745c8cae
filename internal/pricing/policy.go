package pricing

import (
	"os"
	"strconv"
	"strings"
)

// PolicyFromEnv builds the pricing policy from env vars.
//
// VIP_DISCOUNT_RATE is a whole percentage (default 10).
// SPECIAL_MENU_PRICES is "name:price" pairs separated by commas,
// e.g. "Champagne festival:50000,Valentine dinner:25000".
func PolicyFromEnv() Policy {
	p := Policy{
		VipDiscountRatePercent: 10,
		SpecialPrices:          make(map[string]int),
	}

	if v := os.Getenv("VIP_DISCOUNT_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 100 {
			p.VipDiscountRatePercent = n
		}
	}

	for _, pair := range strings.Split(os.Getenv("SPECIAL_MENU_PRICES"), ",") {
		name, price, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(price))
		if err != nil || n < 0 {
			continue
		}
		p.SpecialPrices[strings.TrimSpace(name)] = n
	}

	return p
}
