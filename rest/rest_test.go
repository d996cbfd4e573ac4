package rest_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/goliatone/go-catalog/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type testServer struct {
	app  *fiber.App
	repo catalog.RepositoryManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=private")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.RegisterModel((*catalog.ProductCategory)(nil))

	ctx := context.Background()
	models := []any{
		(*catalog.Role)(nil),
		(*catalog.User)(nil),
		(*catalog.Brand)(nil),
		(*catalog.Category)(nil),
		(*catalog.Product)(nil),
		(*catalog.ProductCategory)(nil),
		(*catalog.Comment)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}
	t.Cleanup(func() { db.Close() })

	repo := catalog.NewRepositoryManager(db)
	tokens := catalog.NewTokenService([]byte("test-signing-key"), 3600, 604800, "test-issuer", nil)
	provider := catalog.NewUserProvider(repo.Users())
	auther := catalog.NewAuthenticator(provider, tokens)
	register := catalog.NewRegisterUserHandler(repo, 4)

	app := fiber.New()
	rest.RegisterRoutes(app, rest.RouterConfig{
		Repo:     repo,
		Auther:   auther,
		Register: register,
		Tokens:   tokens,
	})

	return &testServer{app: app, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	parsed := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}

	return res.StatusCode, parsed
}

func (s *testServer) signupAndSignin(t *testing.T, username, email, password string) string {
	t.Helper()

	code, _ := s.do(t, "POST", "/signup", "", map[string]any{
		"username":   username,
		"email":      email,
		"password":   password,
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, fiber.StatusCreated, code)

	code, body := s.do(t, "POST", "/signin", "", map[string]any{
		"email":    email,
		"password": password,
	})
	require.Equal(t, fiber.StatusOK, code)

	data := body["data"].(map[string]any)
	return data["access_token"].(string)
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)

	t.Run("welcome", func(t *testing.T) {
		code, body := s.do(t, "GET", "/", "", nil)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "success", body["status"])
	})

	t.Run("signup then signin", func(t *testing.T) {
		code, body := s.do(t, "POST", "/signup", "", map[string]any{
			"username":   "ada",
			"email":      "ada@example.com",
			"password":   "correct-horse-battery",
			"first_name": "Ada",
			"last_name":  "Lovelace",
		})
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]any)
		assert.Equal(t, "ada", data["username"])
		// external id is the 26 char opaque form
		assert.Len(t, data["id"], 26)
		_, hasHash := data["password_hash"]
		assert.False(t, hasHash)

		code, body = s.do(t, "POST", "/signin", "", map[string]any{
			"email":    "ada@example.com",
			"password": "correct-horse-battery",
		})
		require.Equal(t, fiber.StatusOK, code)
		pair := body["data"].(map[string]any)
		assert.NotEmpty(t, pair["access_token"])
		assert.NotEmpty(t, pair["refresh_token"])
	})

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		code, body := s.do(t, "POST", "/signup", "", map[string]any{
			"username":   "ada",
			"email":      "other@example.com",
			"password":   "correct-horse-battery",
			"first_name": "Ada",
			"last_name":  "Lovelace",
		})
		assert.Equal(t, fiber.StatusConflict, code)
		assert.Equal(t, "error", body["status"])
	})

	t.Run("bad password is a uniform 401", func(t *testing.T) {
		code, body := s.do(t, "POST", "/signin", "", map[string]any{
			"email":    "ada@example.com",
			"password": "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, code)
		assert.Equal(t, "error", body["status"])

		code, _ = s.do(t, "POST", "/signin", "", map[string]any{
			"email":    "nobody@example.com",
			"password": "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("refresh", func(t *testing.T) {
		code, body := s.do(t, "POST", "/signin", "", map[string]any{
			"email":    "ada@example.com",
			"password": "correct-horse-battery",
		})
		require.Equal(t, fiber.StatusOK, code)
		pair := body["data"].(map[string]any)

		code, body = s.do(t, "POST", "/refresh", "", map[string]any{
			"refresh_token": pair["refresh_token"],
		})
		assert.Equal(t, fiber.StatusOK, code)
		assert.NotEmpty(t, body["data"].(map[string]any)["access_token"])

		code, _ = s.do(t, "POST", "/refresh", "", map[string]any{
			"refresh_token": "garbage",
		})
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("username availability", func(t *testing.T) {
		code, _ := s.do(t, "GET", "/username/ada", "", nil)
		assert.Equal(t, fiber.StatusNotAcceptable, code)

		code, _ = s.do(t, "GET", "/username/grace", "", nil)
		assert.Equal(t, fiber.StatusAccepted, code)
	})

	t.Run("signout requires a token", func(t *testing.T) {
		code, _ := s.do(t, "GET", "/signout", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, code)

		token := s.signupAndSignin(t, "grace", "grace@example.com", "correct-horse-battery")
		code, _ = s.do(t, "GET", "/signout", token, nil)
		assert.Equal(t, fiber.StatusOK, code)
	})
}

func TestBrandEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin(t, "ada", "ada@example.com", "correct-horse-battery")

	payload := map[string]any{
		"name":        "Acme",
		"url_name":    "acme",
		"description": "general purpose anvils",
	}

	t.Run("create requires a token", func(t *testing.T) {
		code, _ := s.do(t, "POST", "/brand", "", payload)
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	var brandID string

	t.Run("create", func(t *testing.T) {
		code, body := s.do(t, "POST", "/brand", token, payload)
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]any)
		brandID = data["id"].(string)
		assert.Len(t, brandID, 26)
		assert.Equal(t, "Acme", data["name"])
	})

	t.Run("show by encoded id", func(t *testing.T) {
		code, body := s.do(t, "GET", "/brand/"+brandID, "", nil)
		require.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, "Acme", body["data"].(map[string]any)["name"])
	})

	t.Run("malformed id is a 404", func(t *testing.T) {
		code, _ := s.do(t, "GET", "/brand/not-an-id", "", nil)
		assert.Equal(t, fiber.StatusNotFound, code)
	})

	t.Run("update", func(t *testing.T) {
		code, body := s.do(t, "PUT", "/brand/"+brandID, token, map[string]any{
			"name":        "Acme Corp",
			"url_name":    "acme",
			"description": "general purpose anvils",
		})
		require.Equal(t, fiber.StatusAccepted, code)
		assert.Equal(t, "Acme Corp", body["data"].(map[string]any)["name"])
	})

	t.Run("update of a bad id is not acceptable", func(t *testing.T) {
		code, _ := s.do(t, "PUT", "/brand/not-an-id", token, payload)
		assert.Equal(t, fiber.StatusNotAcceptable, code)
	})

	t.Run("list walks pages without overlap", func(t *testing.T) {
		for _, n := range []string{"beta", "gamma", "delta"} {
			code, _ := s.do(t, "POST", "/brand", token, map[string]any{
				"name":        n,
				"url_name":    n,
				"description": "brand " + n,
			})
			require.Equal(t, fiber.StatusCreated, code)
		}

		code, body := s.do(t, "POST", "/brand/list", "", map[string]any{"limit": 2})
		require.Equal(t, fiber.StatusOK, code)
		page1 := body["data"].([]any)
		require.Len(t, page1, 2)

		last := page1[1].(map[string]any)["id"].(string)
		code, body = s.do(t, "POST", "/brand/list", "", map[string]any{"limit": 2, "last_id": last})
		require.Equal(t, fiber.StatusOK, code)
		page2 := body["data"].([]any)
		require.Len(t, page2, 2)

		assert.NotEqual(t, page1[0].(map[string]any)["id"], page2[0].(map[string]any)["id"])
	})

	t.Run("malformed cursor is a 404", func(t *testing.T) {
		code, _ := s.do(t, "POST", "/brand/list", "", map[string]any{"last_id": "bogus"})
		assert.Equal(t, fiber.StatusNotFound, code)
	})

	t.Run("delete then show", func(t *testing.T) {
		code, _ := s.do(t, "DELETE", "/brand/"+brandID, token, nil)
		require.Equal(t, fiber.StatusAccepted, code)

		code, _ = s.do(t, "GET", "/brand/"+brandID, "", nil)
		assert.Equal(t, fiber.StatusNotFound, code)

		code, _ = s.do(t, "DELETE", "/brand/"+brandID, token, nil)
		assert.Equal(t, fiber.StatusNotFound, code)
	})
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin(t, "ada", "ada@example.com", "correct-horse-battery")

	code, body := s.do(t, "POST", "/brand", token, map[string]any{
		"name":        "Acme",
		"url_name":    "acme",
		"description": "general purpose anvils",
	})
	require.Equal(t, fiber.StatusCreated, code)
	brandID := body["data"].(map[string]any)["id"].(string)

	code, body = s.do(t, "POST", "/category", token, map[string]any{
		"name":        "Tools",
		"url_name":    "tools",
		"description": "hand tools",
	})
	require.Equal(t, fiber.StatusCreated, code)
	categoryID := body["data"].(map[string]any)["id"].(string)

	var productID string

	t.Run("create embeds brand and categories", func(t *testing.T) {
		code, body := s.do(t, "POST", "/product", token, map[string]any{
			"name":         "Anvil",
			"url_name":     "anvil",
			"description":  "a heavy anvil",
			"brand_id":     brandID,
			"category_ids": []string{categoryID},
		})
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]any)
		productID = data["id"].(string)
		require.NotNil(t, data["brand"])
		assert.Equal(t, "Acme", data["brand"].(map[string]any)["name"])
		assert.Len(t, data["categories"], 1)
	})

	t.Run("lookup by url name", func(t *testing.T) {
		code, body := s.do(t, "GET", "/p/anvil", "", nil)
		require.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, productID, body["data"].(map[string]any)["id"])
	})

	t.Run("search", func(t *testing.T) {
		code, body := s.do(t, "GET", "/product/search/ANV", "", nil)
		require.Equal(t, fiber.StatusOK, code)
		assert.Len(t, body["data"], 1)
	})

	t.Run("comment on the product", func(t *testing.T) {
		code, _ := s.do(t, "POST", "/comment", "", map[string]any{
			"text":       "solid anvil",
			"product_id": productID,
		})
		assert.Equal(t, fiber.StatusUnauthorized, code)

		code, body := s.do(t, "POST", "/comment", token, map[string]any{
			"text":       "solid anvil",
			"product_id": productID,
		})
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]any)
		assert.Equal(t, productID, data["product_id"])
		assert.Len(t, data["user_id"], 26)
	})
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signupAndSignin(t, "ada", "ada@example.com", "correct-horse-battery")

	ctx := context.Background()
	user, err := s.repo.Users().GetByUsername(ctx, "ada")
	require.NoError(t, err)

	t.Run("show requires a token", func(t *testing.T) {
		code, _ := s.do(t, "GET", "/user/whatever", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})

	t.Run("deleting the account kills outstanding tokens", func(t *testing.T) {
		encoded := opaqueid.Encode(user.ID)

		code, _ := s.do(t, "DELETE", "/user/"+encoded, token, nil)
		require.Equal(t, fiber.StatusAccepted, code)

		// the token is still within its TTL but the account is gone
		code, _ = s.do(t, "GET", "/signout", token, nil)
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})
}
