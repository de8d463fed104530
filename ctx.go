package storefront

import (
	"context"

	"github.com/goliatone/go-router"
)

var identityCtxKey = &contextKey{"identity"}

type contextKey struct {
	name string
}

// WithIdentity sets the identity snapshot in the given context
func WithIdentity(ctx context.Context, snapshot IdentitySnapshot) context.Context {
	return context.WithValue(ctx, identityCtxKey, snapshot)
}

// IdentityFromContext finds the identity snapshot in the context.
func IdentityFromContext(ctx context.Context) (IdentitySnapshot, bool) {
	snapshot, ok := ctx.Value(identityCtxKey).(IdentitySnapshot)
	return snapshot, ok
}

// RouterIdentity extracts the identity snapshot placed by the RouteGate
// middleware from the router context.
func RouterIdentity(c router.Context) (IdentitySnapshot, bool) {
	return IdentityFromContext(c.Context())
}

// IsCreatorFromContext is a convenience check for templates and handlers.
// The creator flag is only meaningful while a session is present.
func IsCreatorFromContext(ctx context.Context) bool {
	snapshot, ok := IdentityFromContext(ctx)
	if !ok || snapshot.Session == nil {
		return false
	}
	return snapshot.IsCreator
}
