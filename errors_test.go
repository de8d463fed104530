package storefront_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshFailedCategory(t *testing.T) {
	var richErr *goerrors.Error
	require.True(t, errors.As(storefront.ErrRefreshFailed, &richErr))

	assert.Equal(t, goerrors.CategoryAuth, richErr.Category)
	assert.Equal(t, goerrors.CodeUnauthorized, richErr.Code)
	assert.Equal(t, "SESSION_REFRESH_FAILED", richErr.TextCode)
}

func TestBootstrapRepeatedCategory(t *testing.T) {
	var richErr *goerrors.Error
	require.True(t, errors.As(storefront.ErrBootstrapRepeated, &richErr))

	assert.Equal(t, goerrors.CategoryConflict, richErr.Category)
	assert.Equal(t, "SESSION_BOOTSTRAP_REPEATED", richErr.TextCode)
}

func TestWrapCartPersistence(t *testing.T) {
	assert.NoError(t, storefront.WrapCartPersistence(nil, "noop"))

	cause := errors.New("disk full")
	wrapped := storefront.WrapCartPersistence(cause, "cart save")
	require.Error(t, wrapped)

	var richErr *goerrors.Error
	require.True(t, errors.As(wrapped, &richErr))
	assert.Equal(t, goerrors.CategoryExternal, richErr.Category)
	assert.Equal(t, "CART_PERSISTENCE_FAILED", richErr.TextCode)
	assert.ErrorIs(t, wrapped, cause)
}
