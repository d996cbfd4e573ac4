package jwtware_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/middleware/jwtware"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticIdentity struct {
	id          string
	username    string
	displayName string
}

func (s staticIdentity) ID() string          { return s.id }
func (s staticIdentity) Username() string    { return s.username }
func (s staticIdentity) Email() string       { return s.username + "@example.com" }
func (s staticIdentity) DisplayName() string { return s.displayName }

type validatorAdapter struct {
	tokens catalog.TokenService
}

func (v validatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func setupApp(t *testing.T, inactive map[uuid.UUID]bool) (*fiber.App, catalog.TokenService) {
	t.Helper()

	tokens := catalog.NewTokenService([]byte("test-signing-key"), 3600, 604800, "test-issuer", nil)

	app := fiber.New()
	app.Use(jwtware.New(jwtware.Config{
		TokenValidator: validatorAdapter{tokens: tokens},
		IdentityChecker: func(ctx context.Context, userID uuid.UUID) error {
			if inactive[userID] {
				return catalog.ErrIdentityInactive
			}
			return nil
		},
		ContextEnricher: func(ctx context.Context, userID uuid.UUID, username string) context.Context {
			return catalog.WithRequestIdentity(ctx, catalog.RequestIdentity{
				UserID:   userID,
				Username: username,
			})
		},
	}))
	app.Get("/protected", func(c *fiber.Ctx) error {
		identity, ok := catalog.RequestIdentityFromContext(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(identity.Username)
	})

	return app, tokens
}

func TestMiddleware(t *testing.T) {
	userID := uuid.New()
	inactiveID := uuid.New()

	app, tokens := setupApp(t, map[uuid.UUID]bool{inactiveID: true})

	issue := func(id uuid.UUID, ttl time.Duration) string {
		token, err := tokens.Issue(staticIdentity{
			id:          opaqueid.Encode(id),
			username:    "ada",
			displayName: "Ada L",
		}, ttl, catalog.TokenUseAccess)
		require.NoError(t, err)
		return token
	}

	t.Run("valid bearer token passes and injects the identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issue(userID, time.Hour))

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)

		body, _ := io.ReadAll(res.Body)
		assert.Equal(t, "ada", string(body))
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Basic abc123")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issue(userID, -time.Minute))

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issue(userID, time.Hour)+"xx")

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("inactive identity is refused even with a valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+issue(inactiveID, time.Hour))

		res, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}

func TestMiddlewareFilter(t *testing.T) {
	tokens := catalog.NewTokenService([]byte("test-signing-key"), 3600, 604800, "test-issuer", nil)

	app := fiber.New()
	app.Use(jwtware.New(jwtware.Config{
		TokenValidator: validatorAdapter{tokens: tokens},
		IdentityChecker: func(ctx context.Context, userID uuid.UUID) error {
			return nil
		},
		Filter: func(c *fiber.Ctx) bool {
			return c.Path() == "/public"
		},
	}))
	app.Get("/public", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/public", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}
