package catalog_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProvider_VerifyIdentity(t *testing.T) {
	db := testDB(t)
	users := catalog.NewUsersRepository(db)
	provider := catalog.NewUserProvider(users)
	ctx := context.Background()

	seeded := seedUser(t, db, "ada", "ada@example.com", "sup3r-secret")

	t.Run("valid credentials", func(t *testing.T) {
		identity, err := provider.VerifyIdentity(ctx, "ada@example.com", "sup3r-secret")
		require.NoError(t, err)

		assert.Equal(t, opaqueid.Encode(seeded.ID), identity.ID())
		assert.Equal(t, "ada", identity.Username())
		assert.Equal(t, "ada@example.com", identity.Email())
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, wrongPwd := provider.VerifyIdentity(ctx, "ada@example.com", "nope")
		_, unknown := provider.VerifyIdentity(ctx, "nobody@example.com", "nope")

		assert.ErrorIs(t, wrongPwd, catalog.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, unknown, catalog.ErrMismatchedHashAndPassword)
	})

	t.Run("failed attempts are tracked and trigger the cooldown", func(t *testing.T) {
		seedUser(t, db, "grace", "grace@example.com", "sup3r-secret")

		for i := 0; i < catalog.MaxLoginAttempts; i++ {
			_, err := provider.VerifyIdentity(ctx, "grace@example.com", "nope")
			assert.ErrorIs(t, err, catalog.ErrMismatchedHashAndPassword)
		}

		// even the right password is refused while cooling down
		_, err := provider.VerifyIdentity(ctx, "grace@example.com", "sup3r-secret")
		assert.ErrorIs(t, err, catalog.ErrTooManyLoginAttempts)

		found, err := users.GetByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
		assert.Equal(t, catalog.MaxLoginAttempts, found.LoginAttempts)
	})

	t.Run("successful login resets the attempt counter", func(t *testing.T) {
		_, err := provider.VerifyIdentity(ctx, "ada@example.com", "nope")
		require.Error(t, err)

		_, err = provider.VerifyIdentity(ctx, "ada@example.com", "sup3r-secret")
		require.NoError(t, err)

		found, err := users.GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, 0, found.LoginAttempts)
	})
}

func TestUserProvider_FindIdentityByUsername(t *testing.T) {
	db := testDB(t)
	users := catalog.NewUsersRepository(db)
	provider := catalog.NewUserProvider(users)
	ctx := context.Background()

	seeded := seedUser(t, db, "ada", "ada@example.com", "sup3r-secret")

	t.Run("finds an active identity", func(t *testing.T) {
		identity, err := provider.FindIdentityByUsername(ctx, "ada")
		require.NoError(t, err)
		assert.Equal(t, opaqueid.Encode(seeded.ID), identity.ID())
	})

	t.Run("soft deleted identity is gone", func(t *testing.T) {
		require.NoError(t, users.SoftDelete(ctx, seeded.ID))

		_, err := provider.FindIdentityByUsername(ctx, "ada")
		assert.ErrorIs(t, err, catalog.ErrIdentityNotFound)
	})
}
