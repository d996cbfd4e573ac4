package catalog_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestIdentityContext(t *testing.T) {
	t.Run("round trips through the context", func(t *testing.T) {
		identity := catalog.RequestIdentity{
			UserID:   uuid.New(),
			Username: "ada",
		}

		ctx := catalog.WithRequestIdentity(context.Background(), identity)

		got, ok := catalog.RequestIdentityFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, identity, got)
	})

	t.Run("absent identity reports false", func(t *testing.T) {
		_, ok := catalog.RequestIdentityFromContext(context.Background())
		assert.False(t, ok)
	})
}
