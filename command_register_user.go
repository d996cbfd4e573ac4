package catalog

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries a signup request into the register handler.
type RegisterUserMessage struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Type identifies the message for logs.
func (m RegisterUserMessage) Type() string { return "user.register" }

// Validate checks the message payload.
func (m RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&m.FirstName, validation.Required),
		validation.Field(&m.LastName, validation.Required),
	)
}

// RegisterUserHandler creates user accounts: it enforces email and username
// uniqueness up front, hashes the password, and inserts inside a transaction.
// The schema's unique constraints remain the real guard; the pre checks exist
// to surface a conflict instead of a driver error.
type RegisterUserHandler struct {
	repo       RepositoryManager
	bcryptCost int
	logger     Logger
}

// NewRegisterUserHandler creates the signup handler. A non positive cost
// falls back to the bcrypt default.
func NewRegisterUserHandler(repo RepositoryManager, bcryptCost int) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     defLogger{},
	}
}

// WithLogger sets the logger and returns the instance for chaining.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute registers the user and returns the stored record.
func (h *RegisterUserHandler) Execute(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	msg.Username = strings.TrimSpace(msg.Username)
	msg.Email = strings.TrimSpace(msg.Email)

	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid signup payload")
	}

	users := h.repo.Users()

	if taken, err := users.EmailTaken(ctx, msg.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	if taken, err := users.UsernameTaken(ctx, msg.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := HashPasswordWithCost(msg.Password, h.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     msg.Username,
		Email:        msg.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(msg.FirstName),
		LastName:     strings.TrimSpace(msg.LastName),
	}

	// Derive the id from the email so retried signups stay idempotent at the
	// primary key. Pagination over users is not exposed, so these ids do not
	// need to be creation ordered.
	if id, err := hashid.NewUUID(msg.Email); err == nil {
		user.ID = id
	}

	err = h.repo.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		created, err := users.RegisterTx(ctx, tx, user)
		if err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("registered user %s", user.Username)

	return user, nil
}
