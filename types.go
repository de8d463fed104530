package storefront

import (
	"context"
	"fmt"
	"time"
)

// Logger is the structured logging contract used across the package.
// goliatone/go-logger loggers satisfy it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerProvider resolves named, scoped loggers.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// IdentityEvent classifies notifications emitted by the identity provider.
type IdentityEvent string

const (
	EventSignedIn       IdentityEvent = "identity.signed_in"
	EventSignedOut      IdentityEvent = "identity.signed_out"
	EventTokenRefreshed IdentityEvent = "identity.token_refreshed"
	EventUserUpdated    IdentityEvent = "identity.user_updated"
	EventUserDeleted    IdentityEvent = "identity.user_deleted"
)

// IsSignOutClass reports whether the event must tear down local identity
// state unconditionally.
func (e IdentityEvent) IsSignOutClass() bool {
	return e == EventSignedOut || e == EventUserDeleted
}

// Unsubscribe detaches a previously registered listener.
type Unsubscribe func()

// IdentityClient is the capability surface of the backend identity provider.
// The provider owns users and credentials; this package holds read-only
// projections and never sees password hashes.
type IdentityClient interface {
	// CurrentSession returns the active session or nil when signed out.
	CurrentSession(ctx context.Context) (*SessionObject, error)
	// UserFromSession resolves the user projection behind a session.
	UserFromSession(ctx context.Context, session *SessionObject) (*User, error)
	// Subscribe registers a listener for identity change events.
	Subscribe(fn func(event IdentityEvent, session *SessionObject)) Unsubscribe
	// RefreshSession exchanges the current session for one with a new expiry.
	RefreshSession(ctx context.Context) (*SessionObject, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	RequestPasswordReset(ctx context.Context, email, redirectTarget string) error
	UpdatePassword(ctx context.Context, newPassword string) error
}

// Config holds storefront options
type Config interface {
	GetRefreshInterval() time.Duration
	GetCartStorageKey() string
	GetGuestCheckoutRef() string
	GetCreatorRoot() string
	GetSiteRoot() string
	GetAuthPath() string
	GetRejectedRouteKey() string
	GetRejectedRouteDefault() string
}

// ResolveLogger returns a provider/logger pair scoped to name, falling back
// to the package default logger when neither is supplied.
func ResolveLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	if provider != nil {
		if scoped := provider.GetLogger(name); scoped != nil {
			return provider, scoped
		}
	}

	if logger == nil {
		logger = defLogger{}
	}

	if provider == nil {
		provider = singleLoggerProvider{logger: logger}
	}

	return provider, logger
}

type singleLoggerProvider struct {
	logger Logger
}

func (p singleLoggerProvider) GetLogger(string) Logger {
	return p.logger
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Printf("[ERR] STOREFRONT "+newline(msg), args...)
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Printf("[WRN] STOREFRONT "+newline(msg), args...)
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Printf("[INF] STOREFRONT "+newline(msg), args...)
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Printf("[DBG] STOREFRONT "+newline(msg), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
