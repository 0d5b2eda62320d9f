package orders

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/events"
	"github.com/fjod/go_storefront/storefront/internal/repository"
)

const DefaultMerchantDisplayName = "Zyora Shop"

var (
	FreeShippingThreshold = decimal.NewFromInt(100)
	ShippingFee           = decimal.RequireFromString("5.99")
)

type CheckoutState int

const (
	StateCartReview CheckoutState = iota
	StateOrderRecordCreated
	StatePaymentIntentIssued
	StatePaymentPresented
	StatePaymentConfirmed
	StatePaymentAbandoned
)

func (s CheckoutState) String() string {
	switch s {
	case StateCartReview:
		return "CART_REVIEW"
	case StateOrderRecordCreated:
		return "ORDER_RECORD_CREATED"
	case StatePaymentIntentIssued:
		return "PAYMENT_INTENT_ISSUED"
	case StatePaymentPresented:
		return "PAYMENT_PRESENTED"
	case StatePaymentConfirmed:
		return "PAYMENT_CONFIRMED"
	case StatePaymentAbandoned:
		return "PAYMENT_ABANDONED"
	default:
		return "UNKNOWN"
	}
}

// Identity reports the signed-in shopper. An empty email means signed out.
type Identity interface {
	Email() string
}

type Cart interface {
	Items() []domain.CartLine
	UpdateItemQuantity(ctx context.Context, productID int64, quantity int) error
	ClearCart(ctx context.Context) error
}

type Config struct {
	MerchantDisplayName string
	ReturnURL           string
	// OnState, when set, is called on every checkout state transition.
	OnState func(orderID int64, state CheckoutState)
}

// Coordinator drives checkout: order record, payment intent, payment
// confirmation and status reconciliation. It also holds the shopper's order
// list. Calls are not serialized against each other; two concurrent
// PlaceOrder calls create two orders.
type Coordinator struct {
	identity Identity
	cart     Cart
	repo     repository.OrderRepository
	intents  IntentRequester
	sheet    PaymentSheet
	events   events.Publisher
	cfg      Config
	log      *slog.Logger

	mu          sync.RWMutex
	state       CheckoutState
	orders      []*domain.Order
	cartOrderID int64
	cartItems   []domain.OrderItem
}

func NewCoordinator(
	identity Identity,
	cart Cart,
	repo repository.OrderRepository,
	intents IntentRequester,
	sheet PaymentSheet,
	publisher events.Publisher,
	cfg Config,
	log *slog.Logger,
) *Coordinator {
	if cfg.MerchantDisplayName == "" {
		cfg.MerchantDisplayName = DefaultMerchantDisplayName
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Coordinator{
		identity: identity,
		cart:     cart,
		repo:     repo,
		intents:  intents,
		sheet:    sheet,
		events:   publisher,
		cfg:      cfg,
		log:      log,
	}
}

// Shipping returns the flat fee for subtotals up to and including the free
// shipping threshold, zero above it.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return ShippingFee
}

// PlaceOrder snapshots the cart into a pending order and requests a payment
// intent for its total. A failed intent request leaves the pending order in
// place; it can be paid later through ResumePayment.
func (c *Coordinator) PlaceOrder(ctx context.Context) (*domain.PaymentIntentBundle, error) {
	c.setState(ctx, 0, StateCartReview)

	email := c.identity.Email()
	if email == "" {
		return nil, ErrAuthRequired
	}
	lines := c.cart.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	items := domain.Snapshot(lines)
	subtotal := domain.Subtotal(items)
	total := subtotal.Add(Shipping(subtotal))

	created, err := c.repo.CreateOrder(ctx, &domain.Order{
		UserEmail:     email,
		Items:         items,
		TotalPrice:    total,
		PaymentStatus: domain.PaymentStatusPending,
	})
	if err != nil {
		c.log.ErrorContext(ctx, "failed to save order", "error", err)
		return nil, fmt.Errorf("%w: %w: %w", ErrOrderPersist, ErrNetwork, err)
	}

	c.mu.Lock()
	c.orders = append([]*domain.Order{created}, c.orders...)
	c.cartOrderID = created.ID
	c.cartItems = items
	c.mu.Unlock()

	c.setState(ctx, created.ID, StateOrderRecordCreated)
	c.publish(ctx, events.OrderCreated, created)

	return c.requestIntent(ctx, created.ID, created.TotalPrice, email)
}

// ConfirmPayment presents the payment sheet for bundle and, once the shopper
// pays, marks the order paid with a single owner-scoped update. An update
// that matches no row yields ErrReconciliation: the payment went through but
// the order still reads pending.
func (c *Coordinator) ConfirmPayment(ctx context.Context, bundle *domain.PaymentIntentBundle) error {
	if bundle == nil || bundle.OrderID == 0 {
		return fmt.Errorf("%w: no payment intent", ErrPaymentFailed)
	}
	email := c.identity.Email()
	if email == "" {
		return ErrAuthRequired
	}

	c.setState(ctx, bundle.OrderID, StatePaymentPresented)
	result, err := c.sheet.Present(ctx, PaymentSheetParams{
		CustomerID:                 bundle.Customer,
		CustomerEphemeralKeySecret: bundle.EphemeralKey,
		PaymentIntentClientSecret:  bundle.PaymentIntent,
		MerchantDisplayName:        c.cfg.MerchantDisplayName,
		ReturnURL:                  c.cfg.ReturnURL,
	})
	if err != nil {
		c.setState(ctx, bundle.OrderID, StatePaymentAbandoned)
		return fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}
	switch result {
	case ResultSuccess:
	case ResultCanceled:
		c.setState(ctx, bundle.OrderID, StatePaymentAbandoned)
		return ErrPaymentAbandoned
	default:
		c.setState(ctx, bundle.OrderID, StatePaymentAbandoned)
		return ErrPaymentFailed
	}

	rows, err := c.repo.UpdatePaymentStatus(ctx, bundle.OrderID, email, domain.PaymentStatusSuccess)
	if err != nil {
		c.log.ErrorContext(ctx, "payment captured but status update failed",
			"order_id", bundle.OrderID, "error", err)
		return fmt.Errorf("%w: %w: %w", ErrReconciliation, ErrNetwork, err)
	}
	if rows == 0 {
		c.log.ErrorContext(ctx, "payment captured but order not found for owner",
			"order_id", bundle.OrderID)
		return fmt.Errorf("%w: order %d", ErrReconciliation, bundle.OrderID)
	}

	c.setState(ctx, bundle.OrderID, StatePaymentConfirmed)

	c.mu.Lock()
	var paid *domain.Order
	for _, o := range c.orders {
		if o.ID == bundle.OrderID {
			o.PaymentStatus = domain.PaymentStatusSuccess
			paid = o
		}
	}
	var paidItems []domain.OrderItem
	if c.cartOrderID == bundle.OrderID {
		paidItems = c.cartItems
		c.cartOrderID = 0
		c.cartItems = nil
	}
	c.mu.Unlock()

	if paid == nil {
		paid = &domain.Order{ID: bundle.OrderID, UserEmail: email, TotalPrice: bundle.Total}
	}
	c.publish(ctx, events.OrderPaid, paid)

	if len(paidItems) > 0 {
		if err := c.removePaidItems(ctx, paidItems); err != nil {
			c.log.WarnContext(ctx, "failed to clear cart after payment", "error", err)
		}
	}
	return nil
}

// removePaidItems takes the paid quantities out of the cart. Lines added or
// topped up after the order was placed stay. A cart that still holds exactly
// the paid lines is cleared.
func (c *Coordinator) removePaidItems(ctx context.Context, paid []domain.OrderItem) error {
	live := c.cart.Items()
	remaining := make(map[int64]int, len(live))
	for _, l := range live {
		remaining[l.Product.ID] = l.Quantity
	}
	for _, it := range paid {
		remaining[it.ProductID] -= it.Quantity
	}

	leftover := false
	for _, l := range live {
		if remaining[l.Product.ID] > 0 {
			leftover = true
			break
		}
	}
	if !leftover {
		return c.cart.ClearCart(ctx)
	}

	for _, l := range live {
		if q := remaining[l.Product.ID]; q != l.Quantity {
			if err := c.cart.UpdateItemQuantity(ctx, l.Product.ID, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResumePayment requests a fresh payment intent for a stored pending order
// using its stored total.
func (c *Coordinator) ResumePayment(ctx context.Context, order *domain.Order) (*domain.PaymentIntentBundle, error) {
	email := c.identity.Email()
	if email == "" {
		return nil, ErrAuthRequired
	}
	if order.PaymentStatus.IsTerminal() {
		return nil, fmt.Errorf("%w: order %d", ErrAlreadyPaid, order.ID)
	}
	return c.requestIntent(ctx, order.ID, order.TotalPrice, email)
}

// DeleteOrder deletes the order remotely, scoped to the signed-in owner, and
// then drops it from the held list without re-reading the remote store. A
// delete that matched no row is not an error.
func (c *Coordinator) DeleteOrder(ctx context.Context, id int64) error {
	email := c.identity.Email()
	if email == "" {
		return ErrAuthRequired
	}

	rows, err := c.repo.DeleteOrder(ctx, id, email)
	if err != nil {
		c.log.ErrorContext(ctx, "failed to delete order", "order_id", id, "error", err)
		return fmt.Errorf("%w: %w: %w", ErrOrderDelete, ErrNetwork, err)
	}
	if rows == 0 {
		c.log.WarnContext(ctx, "delete matched no order", "order_id", id)
	}

	c.mu.Lock()
	c.orders = slices.DeleteFunc(c.orders, func(o *domain.Order) bool { return o.ID == id })
	c.mu.Unlock()

	if rows > 0 {
		c.publish(ctx, events.OrderDeleted, &domain.Order{ID: id, UserEmail: email})
	}
	return nil
}

// ListOrders fetches the owner's orders, newest first, and replaces the held
// list with them.
func (c *Coordinator) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	email := c.identity.Email()
	if email == "" {
		return nil, ErrAuthRequired
	}

	list, err := c.repo.ListOrdersByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %w", ErrNetwork, err)
	}

	c.mu.Lock()
	c.orders = list
	c.mu.Unlock()
	return c.Orders(), nil
}

func (c *Coordinator) Orders() []*domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.Order, 0, len(c.orders))
	for _, o := range c.orders {
		cp := *o
		cp.Items = slices.Clone(o.Items)
		out = append(out, &cp)
	}
	return out
}

func (c *Coordinator) GetOrder(id int64) (*domain.Order, error) {
	for _, o := range c.Orders() {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
}

func (c *Coordinator) State() CheckoutState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Coordinator) requestIntent(ctx context.Context, orderID int64, total decimal.Decimal, email string) (*domain.PaymentIntentBundle, error) {
	resp, err := c.intents.RequestIntent(ctx, total, email)
	if err != nil {
		c.log.ErrorContext(ctx, "payment intent request failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w for order %d: %w", ErrPaymentIntent, orderID, err)
	}

	c.setState(ctx, orderID, StatePaymentIntentIssued)
	return &domain.PaymentIntentBundle{
		PaymentIntent: resp.PaymentIntent,
		EphemeralKey:  resp.EphemeralKey,
		Customer:      resp.Customer,
		OrderID:       orderID,
		Total:         total,
	}, nil
}

func (c *Coordinator) setState(ctx context.Context, orderID int64, s CheckoutState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()

	c.log.DebugContext(ctx, "checkout state", "order_id", orderID, "state", s.String())
	if c.cfg.OnState != nil {
		c.cfg.OnState(orderID, s)
	}
}

func (c *Coordinator) publish(ctx context.Context, t events.EventType, order *domain.Order) {
	if err := c.events.Publish(ctx, events.NewOrderEvent(t, order)); err != nil {
		c.log.DebugContext(ctx, "order event dropped", "event_type", t, "error", err)
	}
}
