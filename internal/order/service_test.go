package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dinnervery/Backend-sub000/internal/cart"
	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/customer"
	"github.com/Dinnervery/Backend-sub000/internal/inventory"
	"github.com/Dinnervery/Backend-sub000/internal/policy"
	"github.com/Dinnervery/Backend-sub000/internal/pricing"
)

type fixture struct {
	service  *Service
	carts    *cart.Service
	custRepo *customer.InMemoryRepository
	invRepo  *inventory.InMemoryRepository
	cust     *customer.Customer
	menu     *catalog.Menu
	style    *catalog.ServingStyle
	option   *catalog.MenuOption
	entry    *inventory.Entry
	now      time.Time
}

// newFixture seeds a catalog with the champagne dinner, a tracked
// champagne stock of 10 with consumption 2 per unit, and a BASIC
// customer. The clock is pinned to a Friday noon inside business
// hours.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	cat := catalog.NewService(catalog.NewInMemoryRepository(), nil)
	invRepo := inventory.NewInMemoryRepository()
	inv := inventory.NewService(invRepo)
	custRepo := customer.NewInMemoryRepository()
	loyalty := customer.NewLoyaltyService(custRepo)

	entry, err := inv.CreateEntry(ctx, "champagne", 10)
	if err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	menu, err := cat.CreateMenu(ctx, "Valentine dinner", 28000)
	if err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	style, err := cat.CreateStyle(ctx, "Grand", 5000)
	if err != nil {
		t.Fatalf("seed style: %v", err)
	}
	option, err := cat.CreateOption(ctx, menu.ID, "Champagne", 8000, 1, entry.ID, 2)
	if err != nil {
		t.Fatalf("seed option: %v", err)
	}

	cust := &customer.Customer{
		Email: "diner@example.com",
		Name:  "Diner",
		Grade: customer.GradeBasic,
	}
	if err := custRepo.Save(ctx, cust); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	pricingPolicy := pricing.Policy{VipDiscountRatePercent: 10}
	carts := cart.NewService(cart.NewInMemoryRepository(), cat, pricingPolicy)

	service := NewService(
		NewInMemoryRepository(invRepo),
		carts,
		cat,
		loyalty,
		policy.DefaultHours(),
		pricingPolicy,
		nil,
	)

	now := time.Date(2025, 2, 14, 12, 0, 0, 0, time.Local)
	service.now = func() time.Time { return now }

	return &fixture{
		service:  service,
		carts:    carts,
		custRepo: custRepo,
		invRepo:  invRepo,
		cust:     cust,
		menu:     menu,
		style:    style,
		option:   option,
		entry:    entry,
		now:      now,
	}
}

func (f *fixture) deliveryTime() time.Time {
	return time.Date(2025, 2, 14, 18, 30, 0, 0, time.Local)
}

// fillCart puts one champagne dinner with the option at the given
// quantity into the customer's cart.
func (f *fixture) fillCart(t *testing.T, optionQty int) *cart.Cart {
	t.Helper()

	c, err := f.carts.AddItem(context.Background(), f.cust.ID, f.menu.ID, f.style.ID, 1,
		[]cart.OptionPick{{OptionID: f.option.ID, Quantity: optionQty}})
	if err != nil {
		t.Fatalf("fill cart: %v", err)
	}
	return c
}

func (f *fixture) place(t *testing.T) *Order {
	t.Helper()

	o, err := f.service.Place(context.Background(), f.cust.ID, "12 Candlelight Ave", "pay-001", f.deliveryTime())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return o
}

func (f *fixture) advanceTo(t *testing.T, o *Order, target Status) *Order {
	t.Helper()
	ctx := context.Background()

	steps := []struct {
		status Status
		fn     func(context.Context, string) (*Order, error)
	}{
		{StatusCooking, f.service.StartCooking},
		{StatusCooked, f.service.CompleteCooking},
		{StatusDelivering, f.service.StartDelivering},
		{StatusDone, f.service.CompleteDelivery},
	}

	for _, step := range steps {
		if o.Status == target {
			return o
		}
		next, err := step.fn(ctx, o.ID)
		if err != nil {
			t.Fatalf("advance to %s: %v", step.status, err)
		}
		o = next
	}
	return o
}

// --------------------------------------------------
// Checkout
// --------------------------------------------------

func TestPlaceSnapshotsCartWithPrices(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 3)

	o := f.place(t)

	if o.Status != StatusRequested {
		t.Errorf("status: got %s, want REQUESTED", o.Status)
	}
	if len(o.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(o.Items))
	}

	// 28000 base + 5000 style + 2 extra champagne at 8000.
	item := o.Items[0]
	if item.UnitPrice != 49000 {
		t.Errorf("unit price: got %d, want 49000", item.UnitPrice)
	}
	if o.Total != 49000 {
		t.Errorf("total: got %d, want 49000", o.Total)
	}
	if o.PayableTotal != 49000 {
		t.Errorf("payable total for BASIC customer: got %d, want 49000", o.PayableTotal)
	}
	if o.RequestedAt != f.now {
		t.Errorf("requested_at: got %v, want %v", o.RequestedAt, f.now)
	}
}

func TestPlacedOrderIgnoresLaterCartMutation(t *testing.T) {
	f := newFixture(t)
	c := f.fillCart(t, 3)

	o := f.place(t)

	// Drop the option back to its default after checkout.
	if _, err := f.carts.ChangeOptionQuantity(context.Background(), f.cust.ID, c.Items[0].ID, f.option.ID, 1); err != nil {
		t.Fatalf("mutate cart: %v", err)
	}

	reloaded, err := f.service.Get(context.Background(), f.cust.ID, o.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if reloaded.Items[0].UnitPrice != 49000 {
		t.Errorf("snapshotted unit price changed: got %d, want 49000", reloaded.Items[0].UnitPrice)
	}
	if reloaded.Total != 49000 {
		t.Errorf("snapshotted total changed: got %d, want 49000", reloaded.Total)
	}
}

func TestPlaceAppliesVipDiscountOnce(t *testing.T) {
	f := newFixture(t)

	since := time.Now().AddDate(0, 0, -5)
	f.cust.Grade = customer.GradeVIP
	f.cust.OrderCount = 16
	f.cust.VIPSince = &since
	if err := f.custRepo.Save(context.Background(), f.cust); err != nil {
		t.Fatalf("promote customer: %v", err)
	}

	f.fillCart(t, 3)
	o := f.place(t)

	if !o.VIPDiscount {
		t.Error("vip discount flag not set")
	}
	if o.Total != 49000 {
		t.Errorf("total: got %d, want 49000", o.Total)
	}
	if o.PayableTotal != 44100 {
		t.Errorf("payable total: got %d, want 44100", o.PayableTotal)
	}
}

func TestPlaceFailsOnEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Place(context.Background(), f.cust.ID, "12 Candlelight Ave", "pay-001", f.deliveryTime())
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestPlaceEnforcesBusinessHours(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)

	f.service.now = func() time.Time {
		return time.Date(2025, 2, 14, 8, 0, 0, 0, time.Local)
	}
	_, err := f.service.Place(context.Background(), f.cust.ID, "12 Candlelight Ave", "pay-001", f.deliveryTime())
	if !errors.Is(err, policy.ErrClosed) {
		t.Errorf("expected ErrClosed at 08:00, got %v", err)
	}

	f.service.now = func() time.Time {
		return time.Date(2025, 2, 14, 21, 30, 0, 0, time.Local)
	}
	_, err = f.service.Place(context.Background(), f.cust.ID, "12 Candlelight Ave", "pay-001", f.deliveryTime())
	if !errors.Is(err, policy.ErrPastLastOrder) {
		t.Errorf("expected ErrPastLastOrder at 21:30, got %v", err)
	}
}

func TestPlaceRejectsInvalidDeliveryTime(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)

	misaligned := time.Date(2025, 2, 14, 18, 10, 0, 0, time.Local)
	_, err := f.service.Place(context.Background(), f.cust.ID, "12 Candlelight Ave", "pay-001", misaligned)
	if !errors.Is(err, policy.ErrInvalidDeliveryTime) {
		t.Errorf("expected ErrInvalidDeliveryTime, got %v", err)
	}
}

// --------------------------------------------------
// State machine
// --------------------------------------------------

func TestTransitionsAreStrictlyLinear(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)
	ctx := context.Background()

	// Skipping straight to delivery from REQUESTED must fail and
	// leave the order untouched.
	_, err := f.service.CompleteDelivery(ctx, o.ID)
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transitionErr.Required != StatusDelivering || transitionErr.Actual != StatusRequested {
		t.Errorf("error detail: required %s actual %s", transitionErr.Required, transitionErr.Actual)
	}

	reloaded, _ := f.service.Get(ctx, f.cust.ID, o.ID)
	if reloaded.Status != StatusRequested {
		t.Errorf("status after failed transition: got %s, want REQUESTED", reloaded.Status)
	}
	if reloaded.DoneAt != nil {
		t.Error("done_at set by a failed transition")
	}
}

func TestStartCookingTwiceFailsSecondTime(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)
	ctx := context.Background()

	if _, err := f.service.StartCooking(ctx, o.ID); err != nil {
		t.Fatalf("first start cooking: %v", err)
	}

	_, err := f.service.StartCooking(ctx, o.ID)
	var transitionErr *InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("expected InvalidTransitionError on repeat, got %v", err)
	}
}

func TestFullLifecycleStampsEachTransition(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)

	o = f.advanceTo(t, o, StatusDone)

	if o.Status != StatusDone {
		t.Fatalf("status: got %s, want DONE", o.Status)
	}
	if o.CookingAt == nil || o.CookedAt == nil || o.DeliveringAt == nil || o.DoneAt == nil {
		t.Error("missing transition timestamp")
	}
}

// --------------------------------------------------
// Inventory gate at cook-completion
// --------------------------------------------------

func TestCompleteCookingDeductsStock(t *testing.T) {
	f := newFixture(t)
	// 5 champagne at 2 per unit consumes the whole stock of 10.
	f.fillCart(t, 5)
	o := f.place(t)

	o = f.advanceTo(t, o, StatusCooked)

	if o.Status != StatusCooked {
		t.Fatalf("status: got %s, want COOKED", o.Status)
	}
	entry, _ := f.invRepo.FindEntry(context.Background(), f.entry.ID)
	if entry.Quantity != 0 {
		t.Errorf("stock: got %d, want 0", entry.Quantity)
	}
}

func TestCompleteCookingFailsShortWithoutDeduction(t *testing.T) {
	f := newFixture(t)
	// 6 champagne at 2 per unit needs 12 against a stock of 10.
	f.fillCart(t, 6)
	o := f.place(t)
	ctx := context.Background()

	o = f.advanceTo(t, o, StatusCooking)

	_, err := f.service.CompleteCooking(ctx, o.ID)
	var stockErr *inventory.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	entry, _ := f.invRepo.FindEntry(ctx, f.entry.ID)
	if entry.Quantity != 10 {
		t.Errorf("stock after failed cook: got %d, want 10", entry.Quantity)
	}

	reloaded, _ := f.service.Get(ctx, f.cust.ID, o.ID)
	if reloaded.Status != StatusCooking {
		t.Errorf("status after failed cook: got %s, want COOKING", reloaded.Status)
	}
	if reloaded.CookedAt != nil {
		t.Error("cooked_at set by a failed transition")
	}
}

// TestUpdateStatusAndDeductIsAtomic drives the repository
// directly: the writer that loses the status race must not
// deduct, and a shortage must not flip the status.
func TestUpdateStatusAndDeductIsAtomic(t *testing.T) {
	ctx := context.Background()
	invRepo := inventory.NewInMemoryRepository()
	repo := NewInMemoryRepository(invRepo)

	entry := &inventory.Entry{Name: "champagne", Quantity: 20, Baseline: 20}
	if err := invRepo.SaveEntry(ctx, entry); err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	o := &Order{CustomerID: "cust-1", Status: StatusCooking}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	at := time.Date(2025, 2, 14, 13, 0, 0, 0, time.Local)
	need := map[string]int{entry.ID: 10}

	if err := repo.UpdateStatusAndDeduct(ctx, o.ID, StatusCooking, StatusCooked, at, need); err != nil {
		t.Fatalf("first writer: %v", err)
	}

	// Second writer read COOKING before the first committed.
	err := repo.UpdateStatusAndDeduct(ctx, o.ID, StatusCooking, StatusCooked, at, need)
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("expected ErrStatusConflict, got %v", err)
	}

	stock, _ := invRepo.FindEntry(ctx, entry.ID)
	if stock.Quantity != 10 {
		t.Errorf("stock: got %d, want 10 (deducted once)", stock.Quantity)
	}

	// Shortage path: a fresh order demanding more than remains
	// must leave its status untouched.
	short := &Order{CustomerID: "cust-2", Status: StatusCooking}
	if err := repo.Create(ctx, short); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	var stockErr *inventory.InsufficientStockError
	err = repo.UpdateStatusAndDeduct(ctx, short.ID, StatusCooking, StatusCooked, at, map[string]int{entry.ID: 11})
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	reloaded, _ := repo.FindByID(ctx, short.ID)
	if reloaded.Status != StatusCooking {
		t.Errorf("status after shortage: got %s, want COOKING", reloaded.Status)
	}
}

// TestConcurrentCompleteCookingDeductsOnce runs two service
// instances over one shared store, as two processes would.
// Exactly one cook-completion may win, and the ledger must move
// once.
func TestConcurrentCompleteCookingDeductsOnce(t *testing.T) {
	f := newFixture(t)
	// 5 champagne at 2 per unit consumes the whole stock of 10.
	f.fillCart(t, 5)
	o := f.place(t)
	o = f.advanceTo(t, o, StatusCooking)
	ctx := context.Background()

	other := NewService(
		f.service.repo,
		f.carts,
		f.service.catalog,
		f.service.loyalty,
		f.service.hours,
		f.service.pricing,
		nil,
	)
	other.now = f.service.now

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, svc := range []*Service{f.service, other} {
		wg.Add(1)
		go func(i int, svc *Service) {
			defer wg.Done()
			_, errs[i] = svc.CompleteCooking(ctx, o.ID)
		}(i, svc)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	if successes != 1 {
		t.Fatalf("cook-completions succeeded: got %d, want 1 (errors: %v)", successes, errs)
	}

	entry, _ := f.invRepo.FindEntry(ctx, f.entry.ID)
	if entry.Quantity != 0 {
		t.Errorf("stock: got %d, want 0 (deducted exactly once)", entry.Quantity)
	}
}

// --------------------------------------------------
// Loyalty on the terminal transition
// --------------------------------------------------

func TestCompleteDeliveryIncrementsOrderCountOnce(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)

	before, _ := f.custRepo.FindByID(context.Background(), f.cust.ID)
	if before.OrderCount != 0 {
		t.Fatalf("precondition: order count %d", before.OrderCount)
	}

	f.advanceTo(t, o, StatusDone)

	after, _ := f.custRepo.FindByID(context.Background(), f.cust.ID)
	if after.OrderCount != 1 {
		t.Errorf("order count: got %d, want 1", after.OrderCount)
	}
}

// --------------------------------------------------
// Cancellation extension point, deletion
// --------------------------------------------------

type allowBeforeDone struct{}

func (allowBeforeDone) Authorize(o *Order, now time.Time) error {
	if o.Status == StatusDone {
		return &InvalidTransitionError{Required: StatusDelivering, Actual: o.Status}
	}
	return nil
}

func TestCancelUnsupportedWithoutPolicy(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)

	_, err := f.service.Cancel(context.Background(), o.ID)
	if !errors.Is(err, ErrCancellationUnsupported) {
		t.Errorf("expected ErrCancellationUnsupported, got %v", err)
	}
}

func TestCancelWithPolicyInstalled(t *testing.T) {
	f := newFixture(t)
	f.service.SetCancellationPolicy(allowBeforeDone{})
	f.fillCart(t, 1)
	o := f.place(t)

	canceled, err := f.service.Cancel(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != StatusCanceled {
		t.Errorf("status: got %s, want CANCELED", canceled.Status)
	}
	if canceled.CanceledAt == nil {
		t.Error("canceled_at not set")
	}
}

func TestDeleteRemovesOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)
	ctx := context.Background()

	if err := f.service.Delete(ctx, f.cust.ID, o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.service.Get(ctx, f.cust.ID, o.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound after delete, got %v", err)
	}
}

func TestDeleteRejectsForeignOrder(t *testing.T) {
	f := newFixture(t)
	f.fillCart(t, 1)
	o := f.place(t)

	err := f.service.Delete(context.Background(), "someone-else", o.ID)
	if !errors.Is(err, ErrNotOrderOwner) {
		t.Errorf("expected ErrNotOrderOwner, got %v", err)
	}
}
