package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/pricing"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("cart item not found")
	ErrOptionNotSelected = errors.New("option is not part of the cart item")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrOptionWrongMenu   = errors.New("option does not belong to the selected menu")
	ErrDuplicateOption   = errors.New("option selected more than once")
)

// OptionPick is an option selection in an AddItem request.
type OptionPick struct {
	OptionID string `json:"option_id"`
	Quantity int    `json:"quantity"`
}

type Service struct {
	repo    Repository
	catalog *catalog.Service
	policy  pricing.Policy
}

func NewService(repo Repository, cat *catalog.Service, policy pricing.Policy) *Service {
	return &Service{repo: repo, catalog: cat, policy: policy}
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

// GetOrCreate returns the customer's cart, creating an empty one
// lazily on first use.
func (s *Service) GetOrCreate(ctx context.Context, customerID string) (*Cart, error) {
	c, err := s.repo.FindByCustomer(ctx, customerID)
	if err == nil {
		return c, nil
	}

	c = &Cart{CustomerID: customerID}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the customer's cart or ErrCartNotFound.
func (s *Service) Get(ctx context.Context, customerID string) (*Cart, error) {
	c, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// --------------------------------------------------
// Mutations. Every one reprices the touched item and saves.
// --------------------------------------------------

func (s *Service) AddItem(
	ctx context.Context,
	customerID, menuID, styleID string,
	quantity int,
	picks []OptionPick,
) (*Cart, error) {

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	seen := make(map[string]bool, len(picks))
	for _, pick := range picks {
		if pick.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if seen[pick.OptionID] {
			return nil, ErrDuplicateOption
		}
		seen[pick.OptionID] = true
	}

	menu, err := s.catalog.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	style, err := s.catalog.GetActiveStyle(ctx, styleID)
	if err != nil {
		return nil, err
	}

	item := Item{
		ID:        uuid.New().String(),
		MenuID:    menu.ID,
		MenuName:  menu.Name,
		StyleID:   style.ID,
		StyleName: style.Name,
		Quantity:  quantity,
	}
	for _, pick := range picks {
		option, err := s.catalog.GetOption(ctx, pick.OptionID)
		if err != nil {
			return nil, err
		}
		if option.MenuID != menu.ID {
			return nil, ErrOptionWrongMenu
		}
		item.Options = append(item.Options, ItemOption{
			OptionID: option.ID,
			Name:     option.Name,
			Quantity: pick.Quantity,
		})
	}

	c, err := s.GetOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, item)

	if err := s.repriceItem(ctx, c.findItem(item.ID)); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) RemoveItem(ctx context.Context, customerID, itemID string) (*Cart, error) {
	c, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if !c.removeItem(itemID) {
		return nil, ErrItemNotFound
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ChangeOptionQuantity(
	ctx context.Context,
	customerID, itemID, optionID string,
	newQty int,
) (*Cart, error) {

	if newQty < 1 {
		return nil, ErrInvalidQuantity
	}

	c, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	item := c.findItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	changed := false
	for i := range item.Options {
		if item.Options[i].OptionID == optionID {
			item.Options[i].Quantity = newQty
			changed = true
			break
		}
	}
	if !changed {
		return nil, ErrOptionNotSelected
	}

	if err := s.repriceItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveStyle drops the item's serving style, falling back to the
// zero-extra-price style.
func (s *Service) RemoveStyle(ctx context.Context, customerID, itemID string) (*Cart, error) {
	c, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	item := c.findItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	style, err := s.catalog.ZeroExtraStyle(ctx)
	if err != nil {
		return nil, err
	}
	item.StyleID = style.ID
	item.StyleName = style.Name

	if err := s.repriceItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Clear(ctx context.Context, customerID string) error {
	return s.repo.DeleteByCustomer(ctx, customerID)
}

// repriceItem recomputes the item's unit and line price from the
// current catalog. Styles are resolved without the active check:
// a style deactivated after selection keeps pricing the item.
func (s *Service) repriceItem(ctx context.Context, item *Item) error {
	menu, err := s.catalog.GetMenu(ctx, item.MenuID)
	if err != nil {
		return err
	}
	style, err := s.catalog.GetStyle(ctx, item.StyleID)
	if err != nil {
		return err
	}

	selections := make([]pricing.OptionSelection, 0, len(item.Options))
	for _, sel := range item.Options {
		option, err := s.catalog.GetOption(ctx, sel.OptionID)
		if err != nil {
			return err
		}
		selections = append(selections, pricing.OptionSelection{
			Option:      option,
			SelectedQty: sel.Quantity,
		})
	}

	quote := s.policy.PriceLine(menu, style, item.Quantity, selections)
	item.UnitPrice = quote.UnitPrice
	item.LineTotal = quote.LineTotal
	return nil
}
