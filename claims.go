package catalog

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the read surface of a verified token.
type AuthClaims interface {
	Subject() string
	Username() string
	DisplayName() string
	IssuedAt() time.Time
	Expires() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. Subject carries the
// opaque encoded user id, never the raw UUID.
type JWTClaims struct {
	jwt.RegisteredClaims
	Name     string `json:"name,omitempty"`
	User     string `json:"username,omitempty"`
	TokenUse string `json:"token_use,omitempty"`
}

// Token usage markers. Refresh only accepts tokens carrying the refresh
// marker; protected endpoints accept either.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim: the opaque encoded user id.
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Username returns the username claim.
func (c *JWTClaims) Username() string {
	return c.User
}

// DisplayName returns the display name claim.
func (c *JWTClaims) DisplayName() string {
	return c.Name
}

// Expires returns the expiration time.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issue time.
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
