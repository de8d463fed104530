package storefront

import (
	"context"
	"sync"
)

// CreatorLookup answers the single question role resolution needs: does a
// creator profile exist for this user.
type CreatorLookup interface {
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}

// CreatorLookupFunc adapts a function to the CreatorLookup interface.
type CreatorLookupFunc func(ctx context.Context, userID string) (bool, error)

func (f CreatorLookupFunc) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	if f == nil {
		return false, nil
	}
	return f(ctx, userID)
}

// RoleResolver classifies a signed-in user as creator or customer. Lookup
// errors and missing rows both resolve to false; no error crosses this
// boundary into routing logic. The result is cached until Invalidate, which
// the session manager calls on every clear so a different user sharing the
// browser always re-resolves.
type RoleResolver struct {
	lookup   CreatorLookup
	logger   Logger
	provider LoggerProvider

	mu       sync.Mutex
	epoch    uint64
	cachedID string
	cached   bool
	valid    bool
}

// RoleResolverOption customizes resolver construction.
type RoleResolverOption func(*RoleResolver)

// WithRoleResolverLogger overrides the resolver logger.
func WithRoleResolverLogger(logger Logger) RoleResolverOption {
	return func(r *RoleResolver) {
		r.provider, r.logger = ResolveLogger("storefront.role", r.provider, logger)
	}
}

// WithRoleResolverLoggerProvider resolves a scoped logger from the provider.
func WithRoleResolverLoggerProvider(provider LoggerProvider) RoleResolverOption {
	return func(r *RoleResolver) {
		r.provider, r.logger = ResolveLogger("storefront.role", provider, r.logger)
	}
}

// NewRoleResolver returns a resolver backed by the given lookup.
func NewRoleResolver(lookup CreatorLookup, opts ...RoleResolverOption) *RoleResolver {
	provider, logger := ResolveLogger("storefront.role", nil, nil)
	r := &RoleResolver{
		lookup:   lookup,
		logger:   logger,
		provider: provider,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	return r
}

// Resolve returns whether userID owns a creator profile. Safe default on
// every failure path is false.
func (r *RoleResolver) Resolve(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}

	r.mu.Lock()
	if r.valid && r.cachedID == userID {
		cached := r.cached
		r.mu.Unlock()
		return cached
	}
	epoch := r.epoch
	r.mu.Unlock()

	isCreator, err := r.lookup.ExistsForUser(ctx, userID)
	if err != nil {
		r.logger.Warn("creator lookup failed, resolving to customer", "user_id", userID, "error", err)
		isCreator = false
	}

	r.mu.Lock()
	// A lookup that raced an Invalidate is stale; return it but never cache
	// it, so the next sign-in re-resolves.
	if epoch == r.epoch {
		r.cachedID = userID
		r.cached = isCreator
		r.valid = true
	}
	r.mu.Unlock()

	return isCreator
}

// Invalidate drops the cached classification. Called whenever identity state
// is cleared; the next Resolve hits the data store again.
func (r *RoleResolver) Invalidate() {
	r.mu.Lock()
	r.epoch++
	r.cachedID = ""
	r.cached = false
	r.valid = false
	r.mu.Unlock()
}
