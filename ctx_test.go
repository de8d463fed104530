package storefront_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityContextRoundTrip(t *testing.T) {
	snapshot := storefront.IdentitySnapshot{
		Session:   testSession("user-1", "token-1"),
		User:      &storefront.User{ID: "user-1"},
		IsCreator: true,
		State:     storefront.StateAuthenticated,
	}

	ctx := storefront.WithIdentity(context.Background(), snapshot)

	got, ok := storefront.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, snapshot, got)
}

func TestIdentityFromContextMissing(t *testing.T) {
	_, ok := storefront.IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestIsCreatorFromContext(t *testing.T) {
	assert.False(t, storefront.IsCreatorFromContext(context.Background()))

	withSession := storefront.WithIdentity(context.Background(), storefront.IdentitySnapshot{
		Session:   testSession("user-1", "token-1"),
		IsCreator: true,
		State:     storefront.StateAuthenticated,
	})
	assert.True(t, storefront.IsCreatorFromContext(withSession))

	// The creator flag without a session is never trusted.
	withoutSession := storefront.WithIdentity(context.Background(), storefront.IdentitySnapshot{
		IsCreator: true,
		State:     storefront.StateUnauthenticated,
	})
	assert.False(t, storefront.IsCreatorFromContext(withoutSession))
}
