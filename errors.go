package catalog

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced in error payloads and logs.
const (
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeAuthHeaderMissing  = "AUTH_HEADER_MISSING"
	TextCodeAuthHeaderInvalid  = "AUTH_HEADER_INVALID"
	TextCodeIdentityInactive   = "IDENTITY_INACTIVE"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// ErrTokenExpired is returned when a token fails validation only because its
// validity window has elapsed.
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers unparseable tokens and signature mismatches.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrAuthHeaderMissing is returned when a protected request carries no
// Authorization header.
var ErrAuthHeaderMissing = errors.New("authorization header missing", errors.CategoryAuth).
	WithTextCode(TextCodeAuthHeaderMissing)

// ErrAuthHeaderMalformed is returned when the Authorization header does not
// use the Bearer scheme.
var ErrAuthHeaderMalformed = errors.New("invalid authorization header format", errors.CategoryAuth).
	WithTextCode(TextCodeAuthHeaderInvalid)

// ErrIdentityNotFound is the error we return for not found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityInactive)

// ErrIdentityInactive is returned when a token references an identity that
// has since been unpublished.
var ErrIdentityInactive = errors.New("identity is no longer active", errors.CategoryAuth).
	WithTextCode(TextCodeIdentityInactive)

// ErrMismatchedHashAndPassword is a wrong password during sign in. It is
// indistinguishable from an unknown email on purpose.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials)

// ErrHashFormat is returned when a stored password hash is structurally
// invalid and cannot be compared against.
var ErrHashFormat = errors.New("stored password hash is invalid", errors.CategoryInternal)

// ErrNoEmptyString rejects empty secrets and passwords.
var ErrNoEmptyString = errors.New("value should not be an empty string", errors.CategoryBadInput)

// ErrTooManyLoginAttempts is returned when an account is cooling down after
// repeated failed sign ins.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials)

// ErrEmailTaken is the signup conflict for an already registered email.
var ErrEmailTaken = errors.New("email already in use", errors.CategoryConflict)

// ErrUsernameTaken is the signup conflict for an already registered username.
var ErrUsernameTaken = errors.New("username already in use", errors.CategoryConflict)

// IsTokenExpiredError will check for expired tokens.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsConflictError reports whether err is one of the uniqueness conflicts.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken)
}
