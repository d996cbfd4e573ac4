package catalog

import (
	"context"

	"github.com/google/uuid"
)

// RequestIdentity is the decoded identity attached to authenticated requests
// by the JWT middleware after the per request liveness check passed.
type RequestIdentity struct {
	UserID   uuid.UUID
	Username string
}

type contextKey struct{ name string }

var requestIdentityKey = &contextKey{"request-identity"}

// WithRequestIdentity returns a context carrying the authenticated identity.
func WithRequestIdentity(ctx context.Context, identity RequestIdentity) context.Context {
	return context.WithValue(ctx, requestIdentityKey, identity)
}

// RequestIdentityFromContext retrieves the authenticated identity, if any.
func RequestIdentityFromContext(ctx context.Context) (RequestIdentity, bool) {
	identity, ok := ctx.Value(requestIdentityKey).(RequestIdentity)
	return identity, ok
}
