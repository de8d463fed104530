package storefront_test

import (
	"testing"

	"github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
)

func TestDecideCreatorConfinement(t *testing.T) {
	session := testSession("creator-1", "token-1")

	tests := []struct {
		name string
		path string
		want storefront.Action
	}{
		{"creator root", "/creator", storefront.Allow()},
		{"creator nested", "/creator/products/new", storefront.Allow()},
		{"auth entry", "/auth", storefront.Allow()},
		{"subscription entry", "/subscription", storefront.Allow()},
		{"subscription nested", "/subscription/manage", storefront.Allow()},
		{"public storefront page", "/store/abc", storefront.Allow()},
		{"storefront nested", "/store/abc/products", storefront.Allow()},
		{"bare store prefix", "/store", storefront.RedirectTo(storefront.CreatorRoot)},
		{"site root", "/", storefront.RedirectTo(storefront.CreatorRoot)},
		{"customer products", "/products", storefront.RedirectTo(storefront.CreatorRoot)},
		{"customer cart", "/cart", storefront.RedirectTo(storefront.CreatorRoot)},
		{"customer checkout", "/checkout", storefront.RedirectTo(storefront.CreatorRoot)},
		{"purchases", "/purchases", storefront.RedirectTo(storefront.CreatorRoot)},
		{"unknown path", "/whatever", storefront.RedirectTo(storefront.CreatorRoot)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := storefront.Decide(session, true, tc.path, storefront.NavContext{})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecideCustomerRoutes(t *testing.T) {
	session := testSession("user-1", "token-1")

	tests := []struct {
		name string
		path string
		want storefront.Action
	}{
		{"site root", "/", storefront.Allow()},
		{"products", "/products", storefront.Allow()},
		{"product detail", "/products/abc", storefront.Allow()},
		{"cart", "/cart", storefront.Allow()},
		{"checkout", "/checkout", storefront.Allow()},
		{"library", "/library", storefront.Allow()},
		{"storefront page", "/store/abc", storefront.Allow()},
		{"auth", "/auth", storefront.Allow()},
		{"subscription", "/subscription", storefront.Allow()},
		{"purchases with session", "/purchases", storefront.Allow()},
		{"creator area", "/creator", storefront.RedirectTo(storefront.SiteRoot)},
		{"unknown path", "/nope", storefront.RedirectTo(storefront.SiteRoot)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := storefront.Decide(session, false, tc.path, storefront.NavContext{})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecidePurchasesRequiresSession(t *testing.T) {
	assert.Equal(t,
		storefront.RedirectTo(storefront.SiteRoot),
		storefront.Decide(nil, false, "/purchases", storefront.NavContext{}),
	)

	assert.Equal(t,
		storefront.Allow(),
		storefront.Decide(testSession("user-1", "token-1"), false, "/purchases", storefront.NavContext{}),
	)
}

func TestDecideResetPasswordRequiresRecoveryToken(t *testing.T) {
	assert.Equal(t,
		storefront.RedirectTo(storefront.AuthPath),
		storefront.Decide(nil, false, "/reset-password", storefront.NavContext{}),
	)

	assert.Equal(t,
		storefront.Allow(),
		storefront.Decide(nil, false, "/reset-password", storefront.NavContext{RecoveryToken: "tok"}),
	)
}

// The creator flag without a session is meaningless; such input follows the
// customer rules.
func TestDecideCreatorFlagIgnoredWithoutSession(t *testing.T) {
	assert.Equal(t,
		storefront.Allow(),
		storefront.Decide(nil, true, "/products", storefront.NavContext{}),
	)
	assert.Equal(t,
		storefront.RedirectTo(storefront.SiteRoot),
		storefront.Decide(nil, true, "/creator", storefront.NavContext{}),
	)
}

func TestDecideIsTotal(t *testing.T) {
	paths := []string{"", "/", "products", "/a/b/c//", "/store/", "/creator/"}

	for _, path := range paths {
		action := storefront.Decide(nil, false, path, storefront.NavContext{})
		assert.Contains(t,
			[]storefront.ActionKind{storefront.ActionAllow, storefront.ActionRedirect, storefront.ActionSwap},
			action.Kind,
			"path %q", path,
		)
	}
}
