package storefront

import (
	"context"
	"sync"
)

// ProductSnapshot is the display data captured when a product enters the
// cart. Prices are minor currency units (integer cents); a discounted price,
// when present, always wins over the unit price in totals.
type ProductSnapshot struct {
	Name            string `json:"name"`
	UnitPrice       int64  `json:"unit_price"`
	DiscountedPrice *int64 `json:"discounted_price,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	ProductType     string `json:"product_type,omitempty"`
}

// EffectivePrice returns the discounted price when set, else the unit price.
func (p ProductSnapshot) EffectivePrice() int64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.UnitPrice
}

// CartProduct is the input to AddItem: a product reference plus the snapshot
// to capture.
type CartProduct struct {
	Ref string
	ProductSnapshot
}

// CartItem is one cart line. At most one line exists per product reference.
type CartItem struct {
	ProductRef string          `json:"productRef"`
	Quantity   int             `json:"quantity"`
	Snapshot   ProductSnapshot `json:"productSnapshot"`
}

// Subtotal is the line total in minor currency units.
func (i CartItem) Subtotal() int64 {
	return i.Snapshot.EffectivePrice() * int64(i.Quantity)
}

// CartState is the persisted shape of the cart: ordered line items,
// insertion order is display order.
type CartState struct {
	Items []CartItem `json:"items"`
}

// CartRepository persists CartState under the fixed storage key. The store
// logic is independent of the medium so any durable key-value backend works.
type CartRepository interface {
	Load(ctx context.Context) (CartState, error)
	Save(ctx context.Context, state CartState) error
}

// CartStore owns the shopping cart. It is deliberately independent of the
// session: a guest cart survives sign-in and sign-out, and only an explicit
// checkout-success clears it. Every mutation persists synchronously; a
// failed write is logged and the in-memory mutation stands.
type CartStore struct {
	repo     CartRepository
	logger   Logger
	provider LoggerProvider

	mu    sync.Mutex
	items []CartItem
}

// CartStoreOption customizes store construction.
type CartStoreOption func(*CartStore)

// WithCartLogger overrides the cart logger.
func WithCartLogger(logger Logger) CartStoreOption {
	return func(s *CartStore) {
		s.provider, s.logger = ResolveLogger("storefront.cart", s.provider, logger)
	}
}

// WithCartLoggerProvider resolves a scoped logger from the provider.
func WithCartLoggerProvider(provider LoggerProvider) CartStoreOption {
	return func(s *CartStore) {
		s.provider, s.logger = ResolveLogger("storefront.cart", provider, s.logger)
	}
}

// NewCartStore returns a store hydrated from the repository. A failed load
// is logged and the cart starts empty.
func NewCartStore(ctx context.Context, repo CartRepository, opts ...CartStoreOption) *CartStore {
	provider, logger := ResolveLogger("storefront.cart", nil, nil)
	s := &CartStore{
		repo:     repo,
		logger:   logger,
		provider: provider,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if repo != nil {
		state, err := repo.Load(ctx)
		if err != nil {
			s.logger.Error("cart hydration failed, starting empty", "error", err)
		} else {
			s.items = append(s.items, state.Items...)
		}
	}

	return s
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// the existing line for the same product reference. Existing line order is
// preserved; new lines append to the end.
func (s *CartStore) AddItem(ctx context.Context, product CartProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductRef == product.Ref {
			s.items[i].Quantity++
			s.persistLocked(ctx)
			return
		}
	}

	s.items = append(s.items, CartItem{
		ProductRef: product.Ref,
		Quantity:   1,
		Snapshot:   product.ProductSnapshot,
	})
	s.persistLocked(ctx)
}

// RemoveItem deletes the line for productRef. Removing an absent reference
// is a no-op, not an error.
func (s *CartStore) RemoveItem(ctx context.Context, productRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductRef == productRef {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// SetQuantity sets the quantity for productRef, clamped to a minimum of 1.
// Zero or negative requests are coerced to 1; removal is a distinct,
// explicit operation.
func (s *CartStore) SetQuantity(ctx context.Context, productRef string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductRef == productRef {
			s.items[i].Quantity = quantity
			s.persistLocked(ctx)
			return
		}
	}
}

// Clear empties the cart. Called only on successful checkout completion;
// clearing an already empty cart is a no-op.
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return
	}

	s.items = nil
	s.persistLocked(ctx)
}

// Items returns a copy of the cart lines in display order.
func (s *CartStore) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// TotalItemCount is the sum of all line quantities.
func (s *CartStore) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the cart total in minor currency units.
func (s *CartStore) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// State returns the persisted shape of the current cart.
func (s *CartStore) State() CartState {
	return CartState{Items: s.Items()}
}

// persistLocked writes the current state through the repository. The user's
// action is honored even when the durable copy lags: failures are logged,
// never rolled back.
func (s *CartStore) persistLocked(ctx context.Context) {
	if s.repo == nil {
		return
	}

	items := make([]CartItem, len(s.items))
	copy(items, s.items)

	if err := s.repo.Save(ctx, CartState{Items: items}); err != nil {
		s.logger.Error("cart persistence failed, in-memory state kept", "error", WrapCartPersistence(err, "cart save"))
	}
}
