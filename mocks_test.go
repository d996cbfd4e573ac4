package catalog_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/goliatone/go-catalog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// MockIdentity implements catalog.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) DisplayName() string {
	args := m.Called()
	return args.String(0)
}

// MockIdentityProvider implements catalog.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (catalog.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(catalog.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByUsername(ctx context.Context, username string) (catalog.Identity, error) {
	args := m.Called(ctx, username)
	identity, _ := args.Get(0).(catalog.Identity)
	return identity, args.Error(1)
}

// testDB opens an isolated in-memory sqlite database with the catalog schema
// created from the models.
func testDB(t *testing.T) *bun.DB {
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

	return db
}

func seedUser(t *testing.T, db *bun.DB, username, email, password string) *catalog.User {
	t.Helper()

	hash, err := catalog.HashPassword(password)
	require.NoError(t, err)

	user := &catalog.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
	}

	users := catalog.NewUsersRepository(db)
	created, err := users.Register(context.Background(), user)
	require.NoError(t, err)

	return created
}
