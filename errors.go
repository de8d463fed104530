package storefront

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return when the provider has no user
// behind a session.
var ErrIdentityNotFound = errors.New("identity not found")

// ErrUnableToFindSession is the error for requests carrying no session
var ErrUnableToFindSession = errors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode the provider access token
var ErrUnableToDecodeSession = errors.New("unable to decode session")

// ErrUnableToParseData parse error
var ErrUnableToParseData = errors.New("unable to parse data")

// ErrEmptyCart is returned when checkout is requested for a cart with no lines
var ErrEmptyCart = errors.New("cart has no items")

const (
	textCodeRefreshFailed   = "SESSION_REFRESH_FAILED"
	textCodeBootstrapTwice  = "SESSION_BOOTSTRAP_REPEATED"
	textCodeCartPersistence = "CART_PERSISTENCE_FAILED"
)

// ErrRefreshFailed is returned when the provider rejects a session refresh.
// A failed refresh is never retried in place; the user must sign in again.
var ErrRefreshFailed = goerrors.New("session refresh failed", goerrors.CategoryAuth).
	WithTextCode(textCodeRefreshFailed).
	WithCode(goerrors.CodeUnauthorized)

// ErrBootstrapRepeated is returned when Bootstrap is invoked more than once.
var ErrBootstrapRepeated = goerrors.New("session bootstrap already ran", goerrors.CategoryConflict).
	WithTextCode(textCodeBootstrapTwice).
	WithCode(goerrors.CodeConflict)

// WrapCartPersistence normalizes durable-storage write/read failures. The
// in-memory cart mutation is already applied by the time this is produced.
func WrapCartPersistence(err error, msg string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, msg).
		WithTextCode(textCodeCartPersistence)
}
