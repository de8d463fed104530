package storefront_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-storefront"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, subject string, expiresAt *time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: subject}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestSessionFromToken(t *testing.T) {
	userID := uuid.New().String()
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := mintToken(t, userID, &expiresAt)

	session, err := storefront.SessionFromToken(raw)
	require.NoError(t, err)

	assert.Equal(t, userID, session.GetUserID())
	assert.Equal(t, raw, session.GetToken())
	require.NotNil(t, session.GetExpiration())
	assert.WithinDuration(t, expiresAt, *session.GetExpiration(), time.Second)

	parsed, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed.String())
}

func TestSessionFromTokenWithoutExpiry(t *testing.T) {
	raw := mintToken(t, "user-1", nil)

	session, err := storefront.SessionFromToken(raw)
	require.NoError(t, err)

	assert.Nil(t, session.ExpiresAt)
	assert.False(t, session.IsExpired(time.Now().Add(time.Hour*24*365)))
}

func TestSessionFromTokenRejectsGarbage(t *testing.T) {
	_, err := storefront.SessionFromToken("not-a-token")
	assert.ErrorIs(t, err, storefront.ErrUnableToDecodeSession)
}

func TestSessionFromTokenRequiresSubject(t *testing.T) {
	raw := mintToken(t, "", nil)

	_, err := storefront.SessionFromToken(raw)
	assert.ErrorIs(t, err, storefront.ErrUnableToParseData)
}

func TestSessionIsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	expired := &storefront.SessionObject{UserID: "user-1", ExpiresAt: &past}
	assert.True(t, expired.IsExpired(now))

	live := &storefront.SessionObject{UserID: "user-1", ExpiresAt: &future}
	assert.False(t, live.IsExpired(now))

	var absent *storefront.SessionObject
	assert.False(t, absent.IsExpired(now))
}

func TestSessionString(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour)
	session := storefront.SessionObject{UserID: "user-1", ExpiresAt: &expiresAt}

	assert.Contains(t, session.String(), "user-1")
	assert.NotContains(t, session.String(), "<nil>")

	bare := storefront.SessionObject{UserID: "user-2"}
	assert.Contains(t, bare.String(), "<nil>")
}

func TestIdentityEventSignOutClass(t *testing.T) {
	assert.True(t, storefront.EventSignedOut.IsSignOutClass())
	assert.True(t, storefront.EventUserDeleted.IsSignOutClass())

	assert.False(t, storefront.EventSignedIn.IsSignOutClass())
	assert.False(t, storefront.EventTokenRefreshed.IsSignOutClass())
	assert.False(t, storefront.EventUserUpdated.IsSignOutClass())
}
