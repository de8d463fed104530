package storefront

import (
	"context"
	"time"
)

// CheckoutLine is one (product, quantity) pair handed to the external
// payment redirect.
type CheckoutLine struct {
	ProductRef string `json:"product_id"`
	Quantity   int    `json:"quantity"`
}

// CheckoutRequest is the export consumed by the hosted checkout. CustomerRef
// is the signed-in user id or the guest sentinel.
type CheckoutRequest struct {
	CustomerRef string         `json:"customer_ref"`
	Lines       []CheckoutLine `json:"lines"`
}

// Checkout bridges the cart and the external payment redirect. The only
// identity coupling is session presence, which picks guest versus
// authenticated checkout.
type Checkout struct {
	cart     *CartStore
	manager  *SessionManager
	logger   Logger
	provider LoggerProvider
	sink     ActivitySink
	guestRef string
	now      func() time.Time
}

// CheckoutOption customizes checkout construction.
type CheckoutOption func(*Checkout)

// WithCheckoutLogger overrides the checkout logger.
func WithCheckoutLogger(logger Logger) CheckoutOption {
	return func(c *Checkout) {
		c.provider, c.logger = ResolveLogger("storefront.checkout", c.provider, logger)
	}
}

// WithCheckoutActivitySink sets the sink used for checkout events.
func WithCheckoutActivitySink(sink ActivitySink) CheckoutOption {
	return func(c *Checkout) {
		c.sink = normalizeActivitySink(sink)
	}
}

// WithGuestRef overrides the guest sentinel used for signed-out buyers.
func WithGuestRef(ref string) CheckoutOption {
	return func(c *Checkout) {
		if ref != "" {
			c.guestRef = ref
		}
	}
}

// NewCheckout returns a checkout bound to the cart and session manager.
func NewCheckout(cart *CartStore, manager *SessionManager, opts ...CheckoutOption) *Checkout {
	provider, logger := ResolveLogger("storefront.checkout", nil, nil)
	c := &Checkout{
		cart:     cart,
		manager:  manager,
		logger:   logger,
		provider: provider,
		sink:     noopActivitySink{},
		guestRef: GuestCheckoutRef,
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// BuildRequest exports the cart for the payment redirect. An empty cart is
// not exportable.
func (c *Checkout) BuildRequest(ctx context.Context) (CheckoutRequest, error) {
	items := c.cart.Items()
	if len(items) == 0 {
		return CheckoutRequest{}, ErrEmptyCart
	}

	request := CheckoutRequest{
		CustomerRef: c.customerRef(),
		Lines:       make([]CheckoutLine, 0, len(items)),
	}

	for _, item := range items {
		request.Lines = append(request.Lines, CheckoutLine{
			ProductRef: item.ProductRef,
			Quantity:   item.Quantity,
		})
	}

	c.record(ctx, ActivityEvent{
		EventType: ActivityEventCheckoutExported,
		UserID:    c.userID(),
		Metadata: map[string]any{
			"customer_ref": request.CustomerRef,
			"line_count":   len(request.Lines),
		},
	})

	return request, nil
}

// CompleteCheckout handles the checkout-succeeded signal from the payment
// return: it empties the cart. A duplicate signal finds an empty cart and is
// a no-op, not an error.
func (c *Checkout) CompleteCheckout(ctx context.Context) {
	count := c.cart.TotalItemCount()
	c.cart.Clear(ctx)

	if count == 0 {
		c.logger.Debug("checkout completion on empty cart, ignoring duplicate signal")
		return
	}

	c.record(ctx, ActivityEvent{
		EventType: ActivityEventCheckoutCompleted,
		UserID:    c.userID(),
		Metadata:  map[string]any{"item_count": count},
	})
}

// customerRef returns the signed-in user id or the guest sentinel. Session
// presence is the only identity input checkout consults.
func (c *Checkout) customerRef() string {
	if c.manager == nil {
		return c.guestRef
	}

	snapshot := c.manager.CurrentIdentity()
	if snapshot.Session == nil {
		return c.guestRef
	}
	return snapshot.Session.UserID
}

func (c *Checkout) userID() string {
	if c.manager == nil {
		return ""
	}
	if snapshot := c.manager.CurrentIdentity(); snapshot.Session != nil {
		return snapshot.Session.UserID
	}
	return ""
}

func (c *Checkout) record(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = c.now()
	}

	sink := normalizeActivitySink(c.sink)
	if err := sink.Record(ctx, event); err != nil {
		c.logger.Warn("checkout activity sink error", "error", err)
	}
}
