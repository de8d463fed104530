package storefront

import "strings"

// Route roots and entry points for the two route sets. Creators are confined
// to the creator area plus the auth/subscription entry points and public
// storefront pages; customers get the full site.
const (
	SiteRoot          = "/"
	CreatorRoot       = "/creator"
	AuthPath          = "/auth"
	SubscriptionPath  = "/subscription"
	PurchasesPath     = "/purchases"
	ResetPasswordPath = "/reset-password"
	StorePathPrefix   = "/store/"
)

// customerPaths is the navigable customer route set. Prefix match: a key
// covers itself and everything nested under it.
var customerPaths = []string{
	SiteRoot,
	AuthPath,
	ResetPasswordPath,
	PurchasesPath,
	SubscriptionPath,
	StorePathPrefix,
	"/products",
	"/cart",
	"/checkout",
	"/library",
}

// ActionKind discriminates routing decisions.
type ActionKind int

const (
	// ActionAllow lets the navigation proceed.
	ActionAllow ActionKind = iota
	// ActionRedirect rewrites the navigation to Action.Path.
	ActionRedirect
	// ActionSwap renders Action.Component in place without changing the path.
	ActionSwap
)

// Action is the outcome of a routing decision.
type Action struct {
	Kind      ActionKind
	Path      string
	Component string
}

// Allow returns the pass-through action.
func Allow() Action {
	return Action{Kind: ActionAllow}
}

// RedirectTo returns a redirect action targeting path.
func RedirectTo(path string) Action {
	return Action{Kind: ActionRedirect, Path: path}
}

// Swap returns an action that renders the named component in place.
func Swap(component string) Action {
	return Action{Kind: ActionSwap, Component: component}
}

// NavContext carries navigation inputs that would otherwise be read from
// ambient location state. The gate stays pure by taking them as parameters.
type NavContext struct {
	// RecoveryToken is the password-recovery credential extracted from the
	// navigation; required to reach the reset-password page.
	RecoveryToken string
}

// Decide maps identity state and a path to a routing action. It is total:
// every input yields an action, unknown paths fall through to the root of
// the active route set. Callers re-run it on every navigation and on every
// identity transition so a creator signing in mid-browse is moved
// immediately and a deep link into a protected page never loads data.
//
// Rules, first match wins:
//  1. a creator with a session is confined to the creator area, the auth and
//     subscription entry points, and public storefront pages; anything else
//     rewrites to the creator root
//  2. the purchases listing requires a session, else back to the site root
//  3. the reset-password page requires a recovery token, else the auth entry
//  4. unmatched paths redirect to the active route set's root
func Decide(session *SessionObject, isCreator bool, path string, nav NavContext) Action {
	path = normalizePath(path)

	// The creator flag is meaningless without a session.
	if session == nil {
		isCreator = false
	}

	if isCreator {
		if underPath(path, CreatorRoot) ||
			underPath(path, AuthPath) ||
			underPath(path, SubscriptionPath) ||
			isStorefrontPath(path) {
			return Allow()
		}
		return RedirectTo(CreatorRoot)
	}

	if underPath(path, PurchasesPath) {
		if session == nil {
			return RedirectTo(SiteRoot)
		}
		return Allow()
	}

	if underPath(path, ResetPasswordPath) {
		if nav.RecoveryToken == "" {
			return RedirectTo(AuthPath)
		}
		return Allow()
	}

	for _, known := range customerPaths {
		if underPath(path, known) {
			return Allow()
		}
	}

	return RedirectTo(SiteRoot)
}

// isStorefrontPath matches public storefront pages (/store/:id). The bare
// /store prefix without an id is not a storefront page.
func isStorefrontPath(path string) bool {
	if !strings.HasPrefix(path, StorePathPrefix) {
		return false
	}
	return len(path) > len(StorePathPrefix)
}

// underPath reports whether path equals base or is nested under it.
func underPath(path, base string) bool {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return path == "/"
	}
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+"/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
