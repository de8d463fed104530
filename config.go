package storefront

import "time"

// DefaultRefreshInterval is the cadence of the background session refresh.
const DefaultRefreshInterval = 4 * time.Minute

// DefaultCartStorageKey is the fixed durable-storage key for cart state.
const DefaultCartStorageKey = "storefront.cart"

// GuestCheckoutRef identifies a signed-out buyer in checkout exports.
const GuestCheckoutRef = "guest"

// SimpleConfig is a plain struct implementation of Config.
type SimpleConfig struct {
	RefreshInterval      time.Duration
	CartStorageKey       string
	GuestCheckoutRef     string
	CreatorRoot          string
	SiteRoot             string
	AuthPath             string
	RejectedRouteKey     string
	RejectedRouteDefault string
}

var _ Config = (*SimpleConfig)(nil)

// DefaultConfig returns a SimpleConfig carrying the package defaults.
func DefaultConfig() *SimpleConfig {
	return &SimpleConfig{
		RefreshInterval:      DefaultRefreshInterval,
		CartStorageKey:       DefaultCartStorageKey,
		GuestCheckoutRef:     GuestCheckoutRef,
		CreatorRoot:          CreatorRoot,
		SiteRoot:             SiteRoot,
		AuthPath:             AuthPath,
		RejectedRouteKey:     "rejected_route",
		RejectedRouteDefault: AuthPath,
	}
}

func (c *SimpleConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return c.RefreshInterval
}

func (c *SimpleConfig) GetCartStorageKey() string {
	if c.CartStorageKey == "" {
		return DefaultCartStorageKey
	}
	return c.CartStorageKey
}

func (c *SimpleConfig) GetGuestCheckoutRef() string {
	if c.GuestCheckoutRef == "" {
		return GuestCheckoutRef
	}
	return c.GuestCheckoutRef
}

func (c *SimpleConfig) GetCreatorRoot() string {
	if c.CreatorRoot == "" {
		return CreatorRoot
	}
	return c.CreatorRoot
}

func (c *SimpleConfig) GetSiteRoot() string {
	if c.SiteRoot == "" {
		return SiteRoot
	}
	return c.SiteRoot
}

func (c *SimpleConfig) GetAuthPath() string {
	if c.AuthPath == "" {
		return AuthPath
	}
	return c.AuthPath
}

func (c *SimpleConfig) GetRejectedRouteKey() string {
	if c.RejectedRouteKey == "" {
		return "rejected_route"
	}
	return c.RejectedRouteKey
}

func (c *SimpleConfig) GetRejectedRouteDefault() string {
	if c.RejectedRouteDefault == "" {
		return c.GetAuthPath()
	}
	return c.RejectedRouteDefault
}
