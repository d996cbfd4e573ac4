package catalog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIdentity() *MockIdentity {
	identity := &MockIdentity{}
	identity.On("ID").Return(opaqueid.Encode(uuid.New()))
	identity.On("Username").Return("tester")
	identity.On("DisplayName").Return("Test User")
	return identity
}

func TestTokenService_IssuePair(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := catalog.NewTokenService(signingKey, 3600, 604800, "test-issuer", nil)

	identity := newTestIdentity()

	pair, err := service.IssuePair(identity)
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	t.Run("access token carries identity and expiry", func(t *testing.T) {
		claims, err := service.Validate(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, identity.ID(), claims.Subject())
		assert.Equal(t, "tester", claims.Username())
		assert.Equal(t, "Test User", claims.DisplayName())
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expires(), 5*time.Second)
	})

	t.Run("refresh token expires later than access", func(t *testing.T) {
		access, err := service.Validate(pair.AccessToken)
		require.NoError(t, err)
		refresh, err := service.Validate(pair.RefreshToken)
		require.NoError(t, err)

		assert.True(t, refresh.Expires().After(access.Expires()))
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := catalog.NewTokenService(signingKey, 3600, 604800, "test-issuer", nil)

	t.Run("expired token", func(t *testing.T) {
		token, err := service.Issue(newTestIdentity(), -time.Minute, catalog.TokenUseAccess)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, catalog.ErrTokenExpired)
	})

	t.Run("tampered signature reads as malformed", func(t *testing.T) {
		token, err := service.Issue(newTestIdentity(), time.Hour, catalog.TokenUseAccess)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		_, err = service.Validate(tampered)
		assert.ErrorIs(t, err, catalog.ErrTokenMalformed)
	})

	t.Run("signature check wins over expiry", func(t *testing.T) {
		// expired AND signed with a different key: the forged signature has
		// to be reported, not the expiry
		other := catalog.NewTokenService([]byte("other-key"), 3600, 604800, "test-issuer", nil)
		token, err := other.Issue(newTestIdentity(), -time.Minute, catalog.TokenUseAccess)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.ErrorIs(t, err, catalog.ErrTokenMalformed)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		assert.ErrorIs(t, err, catalog.ErrTokenMalformed)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := catalog.NewTokenService(signingKey, 3600, 604800, "someone-else", nil)
		token, err := other.Issue(newTestIdentity(), time.Hour, catalog.TokenUseAccess)
		require.NoError(t, err)

		_, err = service.Validate(token)
		assert.Error(t, err)
	})

	t.Run("rejects non HMAC algorithms", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &catalog.JWTClaims{})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Validate(signed)
		assert.ErrorIs(t, err, catalog.ErrTokenMalformed)
	})
}
