package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/pricing"
)

type fixture struct {
	service *Service
	catRepo *catalog.InMemoryRepository
	menu    *catalog.Menu
	grand   *catalog.ServingStyle
	simple  *catalog.ServingStyle
	option  *catalog.MenuOption
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	catRepo := catalog.NewInMemoryRepository()
	cat := catalog.NewService(catRepo, nil)

	menu, err := cat.CreateMenu(ctx, "Valentine dinner", 28000)
	if err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	grand, err := cat.CreateStyle(ctx, "Grand", 5000)
	if err != nil {
		t.Fatalf("seed style: %v", err)
	}
	simple, err := cat.CreateStyle(ctx, "Simple", 0)
	if err != nil {
		t.Fatalf("seed style: %v", err)
	}
	option, err := cat.CreateOption(ctx, menu.ID, "Champagne", 8000, 1, "", 0)
	if err != nil {
		t.Fatalf("seed option: %v", err)
	}

	return &fixture{
		service: NewService(NewInMemoryRepository(), cat, pricing.Policy{}),
		catRepo: catRepo,
		menu:    menu,
		grand:   grand,
		simple:  simple,
		option:  option,
	}
}

func TestAddItemCreatesCartLazily(t *testing.T) {
	f := newFixture(t)

	cart, err := f.service.AddItem(context.Background(), "customer-1", f.menu.ID, f.grand.ID, 1, nil)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if cart.CustomerID != "customer-1" {
		t.Errorf("customer id: got %s", cart.CustomerID)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(cart.Items))
	}
	if cart.Items[0].UnitPrice != 33000 {
		t.Errorf("unit price: got %d, want 33000", cart.Items[0].UnitPrice)
	}
}

func TestAddItemPricesOptionsAboveDefault(t *testing.T) {
	f := newFixture(t)

	cart, err := f.service.AddItem(context.Background(), "customer-1", f.menu.ID, f.grand.ID, 1,
		[]OptionPick{{OptionID: f.option.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	// 28000 + 5000 + 2*8000 above the included unit.
	if cart.Items[0].UnitPrice != 49000 {
		t.Errorf("unit price: got %d, want 49000", cart.Items[0].UnitPrice)
	}
	if cart.Total() != 49000 {
		t.Errorf("total: got %d, want 49000", cart.Total())
	}
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "customer-1", f.menu.ID, f.grand.ID, 0, nil)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}

	_, err = f.service.AddItem(context.Background(), "customer-1", f.menu.ID, f.grand.ID, 1,
		[]OptionPick{{OptionID: f.option.ID, Quantity: 0}})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for option, got %v", err)
	}
}

func TestAddItemRejectsDuplicateOption(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "customer-1", f.menu.ID, f.grand.ID, 1,
		[]OptionPick{
			{OptionID: f.option.ID, Quantity: 1},
			{OptionID: f.option.ID, Quantity: 2},
		})
	if !errors.Is(err, ErrDuplicateOption) {
		t.Errorf("expected ErrDuplicateOption, got %v", err)
	}
}

func TestAddItemUnknownMenu(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.AddItem(context.Background(), "customer-1", "no-such-menu", f.grand.ID, 1, nil)
	if !errors.Is(err, catalog.ErrMenuNotFound) {
		t.Errorf("expected ErrMenuNotFound, got %v", err)
	}
}

func TestAddItemRejectsInactiveStyle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	deactivated := *f.grand
	deactivated.Active = false
	if err := f.catRepo.SaveStyle(ctx, &deactivated); err != nil {
		t.Fatalf("deactivate style: %v", err)
	}

	_, err := f.service.AddItem(ctx, "customer-1", f.menu.ID, f.grand.ID, 1, nil)
	if !errors.Is(err, catalog.ErrStyleInactive) {
		t.Errorf("expected ErrStyleInactive, got %v", err)
	}
}

func TestChangeOptionQuantityReprices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.service.AddItem(ctx, "customer-1", f.menu.ID, f.grand.ID, 1,
		[]OptionPick{{OptionID: f.option.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	cart, err = f.service.ChangeOptionQuantity(ctx, "customer-1", cart.Items[0].ID, f.option.ID, 1)
	if err != nil {
		t.Fatalf("change option quantity: %v", err)
	}

	// Back to the default: no extra option cost, no refund below it.
	if cart.Items[0].UnitPrice != 33000 {
		t.Errorf("unit price: got %d, want 33000", cart.Items[0].UnitPrice)
	}

	_, err = f.service.ChangeOptionQuantity(ctx, "customer-1", cart.Items[0].ID, f.option.ID, 0)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestRemoveStyleResetsToZeroExtra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.service.AddItem(ctx, "customer-1", f.menu.ID, f.grand.ID, 1, nil)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	cart, err = f.service.RemoveStyle(ctx, "customer-1", cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove style: %v", err)
	}

	if cart.Items[0].StyleID != f.simple.ID {
		t.Errorf("style: got %s, want zero-extra style", cart.Items[0].StyleName)
	}
	if cart.Items[0].UnitPrice != 28000 {
		t.Errorf("unit price: got %d, want 28000", cart.Items[0].UnitPrice)
	}
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cart, err := f.service.AddItem(ctx, "customer-1", f.menu.ID, f.grand.ID, 2, nil)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	cart, err = f.service.AddItem(ctx, "customer-1", f.menu.ID, f.simple.ID, 1, nil)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if cart.Total() != 2*33000+28000 {
		t.Fatalf("total: got %d, want %d", cart.Total(), 2*33000+28000)
	}

	cart, err = f.service.RemoveItem(ctx, "customer-1", cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if cart.Total() != 28000 {
		t.Errorf("total after remove: got %d, want 28000", cart.Total())
	}
}

func TestRemoveMissingItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.service.AddItem(ctx, "customer-1", f.menu.ID, f.grand.ID, 1, nil); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := f.service.RemoveItem(ctx, "customer-1", "no-such-item")
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}
