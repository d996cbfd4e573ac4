package catalog

import (
	"context"
	"time"

	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/goliatone/go-repository-bun"
)

// Login throttling defaults: after MaxLoginAttempts consecutive failures the
// account cools down for CoolDownPeriod before sign in is attempted again.
const (
	MaxLoginAttempts = 5
	CoolDownPeriod   = 15 * time.Minute
)

type userProvider struct {
	users  Users
	logger Logger
}

// NewUserProvider builds an IdentityProvider over the users repository.
// Identities it returns carry the opaque encoded id, never the raw UUID.
func NewUserProvider(users Users) IdentityProvider {
	return &userProvider{
		users:  users,
		logger: defLogger{},
	}
}

// VerifyIdentity authenticates an email/password pair. Unknown emails, wrong
// passwords, and inactive accounts all collapse into the same credential
// error so the endpoint does not leak which part failed.
func (p *userProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if coolingDown(user) {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if trackErr := p.users.TrackAttemptedLogin(ctx, user); trackErr != nil {
			p.logger.Error("failed to track login attempt for %s: %v", user.Username, trackErr)
		}
		return nil, err
	}

	if err := p.users.TrackSuccessfulLogin(ctx, user); err != nil {
		p.logger.Error("failed to track successful login for %s: %v", user.Username, err)
	}

	return identityFromUser(user), nil
}

// FindIdentityByUsername reloads an active identity during token refresh.
func (p *userProvider) FindIdentityByUsername(ctx context.Context, username string) (Identity, error) {
	user, err := p.users.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return identityFromUser(user), nil
}

func coolingDown(user *User) bool {
	if user.LoginAttempts < MaxLoginAttempts || user.LoginAttemptAt == nil {
		return false
	}
	return time.Since(*user.LoginAttemptAt) < CoolDownPeriod
}

func identityFromUser(user *User) Identity {
	return authIdentity{
		id:          opaqueid.Encode(user.ID),
		email:       user.Email,
		username:    user.Username,
		displayName: user.DisplayName(),
	}
}
