package inventory

import (
	"errors"
	"fmt"
)

var ErrEntryNotFound = errors.New("inventory entry not found")

// InsufficientStockError reports the first ingredient that could
// not cover an order's demand. Nothing is deducted when it fires.
type InsufficientStockError struct {
	EntryID   string
	Name      string
	Required  int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock of %s: need %d, have %d",
		e.Name, e.Required, e.Available,
	)
}
