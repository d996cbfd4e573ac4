package catalog

import (
	"context"
)

// Auther implements Authenticator: it verifies credentials through an
// IdentityProvider and mints token pairs through a TokenService.
type Auther struct {
	provider IdentityProvider
	tokens   TokenService
	logger   Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator creates an Auther.
func NewAuthenticator(provider IdentityProvider, tokens TokenService) *Auther {
	return &Auther{
		provider: provider,
		tokens:   tokens,
		logger:   defLogger{},
	}
}

// WithLogger sets the logger and returns the instance for chaining.
func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// SignIn verifies the email/password pair and issues a fresh access/refresh
// pair for the identity.
func (a *Auther) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	identity, err := a.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		a.logger.Debug("sign in rejected: %v", err)
		return nil, err
	}
	return a.tokens.IssuePair(identity)
}

// Refresh validates the refresh token, reloads the identity so a deactivated
// account cannot renew its session, and issues a new pair. The presented
// refresh token stays valid until it expires; pairs are not rotated. Only
// tokens minted with the refresh marker are accepted; an access token
// presented here reads as malformed.
func (a *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.tokens.Validate(refreshToken)
	if err != nil {
		return nil, err
	}

	if jc, ok := claims.(*JWTClaims); !ok || jc.TokenUse != TokenUseRefresh {
		return nil, ErrTokenMalformed
	}

	identity, err := a.provider.FindIdentityByUsername(ctx, claims.Username())
	if err != nil {
		a.logger.Debug("refresh rejected for %s: %v", claims.Username(), err)
		return nil, ErrIdentityNotFound
	}

	return a.tokens.IssuePair(identity)
}
