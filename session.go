package storefront

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionObject is the live authentication credential for the current
// browser context. It is either entirely absent (nil) or fully populated;
// callers must never construct a partially filled session.
type SessionObject struct {
	Token     string     `json:"token,omitempty"`
	UserID    string     `json:"user_id,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(s.UserID)
}

func (s *SessionObject) GetToken() string {
	return s.Token
}

func (s *SessionObject) GetExpiration() *time.Time {
	return s.ExpiresAt
}

// IsExpired reports whether the session expiry has passed. Sessions without
// an expiry never report expired; the provider enforces its own limits.
func (s *SessionObject) IsExpired(now time.Time) bool {
	if s == nil || s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}

func (s SessionObject) String() string {
	expiresAt := "<nil>"
	if s.ExpiresAt != nil {
		expiresAt = s.ExpiresAt.Format(time.RFC1123)
	}
	return fmt.Sprintf("user=%s exp=%s", s.UserID, expiresAt)
}

// User is the read-only projection of the authenticated principal. The
// identity provider owns the record; we never write it back.
type User struct {
	ID          string         `json:"id,omitempty"`
	Email       string         `json:"email,omitempty"`
	DisplayName string         `json:"display_name,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// SessionFromToken maps a provider-issued access token into a SessionObject.
// The token is treated as an opaque credential: signature verification
// belongs to the provider, we only lift subject and expiry out of the
// registered claims.
func SessionFromToken(raw string) (*SessionObject, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, ErrUnableToDecodeSession
	}

	if claims.Subject == "" {
		return nil, ErrUnableToParseData
	}

	session := &SessionObject{
		Token:  raw,
		UserID: claims.Subject,
	}

	if claims.ExpiresAt != nil {
		expiresAt := claims.ExpiresAt.Time
		session.ExpiresAt = &expiresAt
	}

	return session, nil
}
