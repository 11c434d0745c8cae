package order

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Dinnervery/Backend-sub000/internal/cart"
	"github.com/Dinnervery/Backend-sub000/internal/catalog"
	"github.com/Dinnervery/Backend-sub000/internal/customer"
	"github.com/Dinnervery/Backend-sub000/internal/inventory"
	"github.com/Dinnervery/Backend-sub000/internal/policy"
	"github.com/Dinnervery/Backend-sub000/internal/pricing"
)

var (
	ErrEmptyCart               = errors.New("cart is empty or absent")
	ErrMissingAddress          = errors.New("delivery address is required")
	ErrMissingPaymentRef       = errors.New("payment reference is required")
	ErrCancellationUnsupported = errors.New("cancellation is not supported")
	ErrNotOrderOwner           = errors.New("order belongs to another customer")
)

// Notifier publishes order status changes to interested parties.
// A nil notifier disables publishing.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, order *Order) error
}

// CancellationPolicy is the extension point for order
// cancellation. None is configured by default; installing one
// decides from which states cancellation is allowed.
type CancellationPolicy interface {
	Authorize(order *Order, now time.Time) error
}

type Service struct {
	repo      Repository
	carts     *cart.Service
	catalog   *catalog.Service
	loyalty   *customer.LoyaltyService
	hours     policy.Hours
	pricing   pricing.Policy
	notifier  Notifier
	canceller CancellationPolicy
	now       func() time.Time

	// Serializes transitions per order within this process; the
	// repository's compare-and-set covers the rest.
	locks sync.Map
}

func NewService(
	repo Repository,
	carts *cart.Service,
	cat *catalog.Service,
	loyalty *customer.LoyaltyService,
	hours policy.Hours,
	pricingPolicy pricing.Policy,
	notifier Notifier,
) *Service {
	return &Service{
		repo:      repo,
		carts:     carts,
		catalog:   cat,
		loyalty:   loyalty,
		hours:     hours,
		pricing:   pricingPolicy,
		notifier:  notifier,
		now:       time.Now,
	}
}

// SetCancellationPolicy installs the optional cancellation hook.
func (s *Service) SetCancellationPolicy(p CancellationPolicy) {
	s.canceller = p
}

func (s *Service) lock(orderID string) func() {
	mu, _ := s.locks.LoadOrStore(orderID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// --------------------------------------------------
// Checkout: cart snapshot -> REQUESTED order
// --------------------------------------------------
func (s *Service) Place(
	ctx context.Context,
	customerID, address, paymentRef string,
	deliveryTime time.Time,
) (*Order, error) {

	now := s.now()

	if err := s.hours.CheckOrderable(now); err != nil {
		return nil, err
	}
	if err := s.hours.ValidateDeliveryTime(now, deliveryTime); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, ErrMissingAddress
	}
	if paymentRef == "" {
		return nil, ErrMissingPaymentRef
	}

	basket, err := s.carts.Get(ctx, customerID)
	if err != nil || len(basket.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items, total, err := s.snapshot(ctx, basket)
	if err != nil {
		return nil, err
	}

	payable := total
	vip, err := s.loyalty.IsVipDiscountEligible(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if vip {
		payable = s.pricing.ApplyVipDiscount(total)
	}

	o := &Order{
		CustomerID:   customerID,
		Address:      address,
		PaymentRef:   paymentRef,
		DeliveryTime: deliveryTime,
		Items:        items,
		Total:        total,
		PayableTotal: payable,
		VIPDiscount:  vip,
		Status:       StatusRequested,
		RequestedAt:  now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.notify(ctx, o)
	return o, nil
}

// snapshot deep-copies the cart into order items, fixing every
// price at its current catalog value. The order never re-derives
// prices from the catalog afterwards.
func (s *Service) snapshot(ctx context.Context, basket *cart.Cart) ([]Item, int, error) {
	items := make([]Item, 0, len(basket.Items))
	total := 0

	for _, ci := range basket.Items {
		menu, err := s.catalog.GetMenu(ctx, ci.MenuID)
		if err != nil {
			return nil, 0, err
		}
		style, err := s.catalog.GetStyle(ctx, ci.StyleID)
		if err != nil {
			return nil, 0, err
		}

		item := Item{
			ID:         ci.ID,
			MenuID:     menu.ID,
			MenuName:   menu.Name,
			MenuPrice:  s.pricing.BasePrice(menu),
			StyleID:    style.ID,
			StyleName:  style.Name,
			StylePrice: style.ExtraPrice,
			Quantity:   ci.Quantity,
		}

		selections := make([]pricing.OptionSelection, 0, len(ci.Options))
		for _, sel := range ci.Options {
			option, err := s.catalog.GetOption(ctx, sel.OptionID)
			if err != nil {
				return nil, 0, err
			}
			item.Options = append(item.Options, ItemOption{
				OptionID:           option.ID,
				Name:               option.Name,
				Quantity:           sel.Quantity,
				UnitPrice:          option.UnitPrice,
				DefaultQty:         option.DefaultQty,
				InventoryID:        option.InventoryID,
				ConsumptionPerUnit: option.ConsumptionPerUnit,
			})
			selections = append(selections, pricing.OptionSelection{
				Option:      option,
				SelectedQty: sel.Quantity,
			})
		}

		quote := s.pricing.PriceLine(menu, style, ci.Quantity, selections)
		item.UnitPrice = quote.UnitPrice
		item.LineTotal = quote.LineTotal

		total += item.LineTotal
		items = append(items, item)
	}

	return items, total, nil
}

// --------------------------------------------------
// Reads
// --------------------------------------------------
func (s *Service) Get(ctx context.Context, customerID, orderID string) (*Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if o.CustomerID != customerID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// --------------------------------------------------
// Transitions
// --------------------------------------------------
func (s *Service) StartCooking(ctx context.Context, orderID string) (*Order, error) {
	return s.transition(ctx, orderID, (*Order).startCooking, nil)
}

// CompleteCooking deducts every option's stock before leaving
// COOKING. The repository couples the deduction to the status
// compare-and-set, so a shortage leaves both the ledger and the
// order as they were, and a lost race deducts nothing.
func (s *Service) CompleteCooking(ctx context.Context, orderID string) (*Order, error) {
	return s.transition(ctx, orderID, (*Order).completeCooking, func(o *Order) map[string]int {
		return inventory.Aggregate(demands(o))
	})
}

func (s *Service) StartDelivering(ctx context.Context, orderID string) (*Order, error) {
	return s.transition(ctx, orderID, (*Order).startDelivering, nil)
}

// CompleteDelivery is the terminal transition; it is the one
// place the loyalty order count moves.
func (s *Service) CompleteDelivery(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.transition(ctx, orderID, (*Order).completeDelivery, nil)
	if err != nil {
		return nil, err
	}

	if err := s.loyalty.IncrementOrderCount(ctx, o.CustomerID); err != nil {
		log.Printf("loyalty increment failed for order %s: %v", o.ID, err)
	}
	return o, nil
}

// transition runs one step: reread the order under the per-order
// lock, apply the model guard, then persist with compare-and-set.
// A step that consumes stock hands its demands to the repository
// so the deduction commits or fails together with the status.
func (s *Service) transition(
	ctx context.Context,
	orderID string,
	step func(*Order, time.Time) error,
	need func(*Order) map[string]int,
) (*Order, error) {

	unlock := s.lock(orderID)
	defer unlock()

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	expected := o.Status
	now := s.now()
	if err := step(o, now); err != nil {
		return nil, err
	}

	if need != nil {
		err = s.repo.UpdateStatusAndDeduct(ctx, o.ID, expected, o.Status, now, need(o))
	} else {
		err = s.repo.UpdateStatus(ctx, o.ID, expected, o.Status, now)
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, o)
	return o, nil
}

// demands flattens an order into per-option stock requirements.
// Options without a ledger link contribute nothing.
func demands(o *Order) []inventory.Demand {
	var ds []inventory.Demand
	for _, item := range o.Items {
		for _, option := range item.Options {
			if option.InventoryID == "" {
				continue
			}
			ds = append(ds, inventory.Demand{
				EntryID:  option.InventoryID,
				Required: option.ConsumptionPerUnit * option.Quantity * item.Quantity,
			})
		}
	}
	return ds
}

// --------------------------------------------------
// Cancellation (extension point) and deletion
// --------------------------------------------------
func (s *Service) Cancel(ctx context.Context, orderID string) (*Order, error) {
	if s.canceller == nil {
		return nil, ErrCancellationUnsupported
	}

	unlock := s.lock(orderID)
	defer unlock()

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	now := s.now()
	if err := s.canceller.Authorize(o, now); err != nil {
		return nil, err
	}

	expected := o.Status
	o.Status = StatusCanceled
	o.CanceledAt = &now

	if err := s.repo.UpdateStatus(ctx, o.ID, expected, o.Status, now); err != nil {
		return nil, err
	}

	s.notify(ctx, o)
	return o, nil
}

// Delete hard-deletes the order with its items and options.
func (s *Service) Delete(ctx context.Context, customerID, orderID string) error {
	if _, err := s.Get(ctx, customerID, orderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, orderID)
}

func (s *Service) notify(ctx context.Context, o *Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.OrderStatusChanged(ctx, o); err != nil {
		log.Printf("order notification failed for %s: %v", o.ID, err)
	}
}
