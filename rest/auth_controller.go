package rest

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-errors"
)

// AuthController serves the authentication surface: signup, signin, refresh,
// signout, and username availability.
type AuthController struct {
	Logger   catalog.Logger
	Repo     catalog.RepositoryManager
	Auther   catalog.Authenticator
	Register *catalog.RegisterUserHandler
}

type AuthControllerOption func(*AuthController) *AuthController

// NewAuthController creates the controller and panics on missing wiring.
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: catalog.DefaultLogger(),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("REST: auth controller requires a RepositoryManager")
	}
	if c.Auther == nil {
		panic("REST: auth controller requires an Authenticator")
	}
	if c.Register == nil {
		panic("REST: auth controller requires a RegisterUserHandler")
	}

	return c
}

// WithRepo sets the repository manager.
func WithRepo(repo catalog.RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

// WithAuther sets the authenticator.
func WithAuther(auther catalog.Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithRegisterHandler sets the signup handler.
func WithRegisterHandler(handler *catalog.RegisterUserHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = handler
		return c
	}
}

// WithAuthLogger sets the logger.
func WithAuthLogger(logger catalog.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// Welcome answers the unauthenticated root probe.
func (a *AuthController) Welcome(c *fiber.Ctx) error {
	return SendMessage(c, fiber.StatusOK, "catalog service up and running")
}

// SignUp answers POST /signup: 201 with the stored user, 409 on a taken
// email or username.
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	msg := catalog.RegisterUserMessage{}
	if err := c.BodyParser(&msg); err != nil {
		return MapError(c, errors.Wrap(err, errors.CategoryBadInput, "failed to parse signup payload"))
	}

	user, err := a.Register.Execute(c.UserContext(), msg)
	if err != nil {
		if !catalog.IsConflictError(err) {
			a.Logger.Error("signup failed: %v", err)
		}
		return MapError(c, err)
	}

	return SendData(c, fiber.StatusCreated, NewUserView(user))
}

// SignInPayload is the credential body.
type SignInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules.
func (p SignInPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
}

// SignIn answers POST /signin. Every failure, unknown email, wrong password,
// cooling down account, reads as the same 401.
func (a *AuthController) SignIn(c *fiber.Ctx) error {
	payload := SignInPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return SendError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	if err := payload.Validate(); err != nil {
		return SendError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	pair, err := a.Auther.SignIn(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Debug("sign in failed for %s: %v", payload.Email, err)
		return SendError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	return SendData(c, fiber.StatusOK, pair)
}

// RefreshPayload carries the refresh token.
type RefreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh answers POST /refresh with a fresh pair, or 401 when the token or
// the account behind it is no longer good.
func (a *AuthController) Refresh(c *fiber.Ctx) error {
	payload := RefreshPayload{}
	if err := c.BodyParser(&payload); err != nil || payload.RefreshToken == "" {
		return SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	pair, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
	}

	return SendData(c, fiber.StatusOK, pair)
}

// SignOut answers GET /signout. Tokens are stateless, so this only
// acknowledges; clients discard their pair.
func (a *AuthController) SignOut(c *fiber.Ctx) error {
	return SendMessage(c, fiber.StatusOK, "signed out")
}

// CheckUsername answers GET /username/:username: 202 when available, 406
// when taken.
func (a *AuthController) CheckUsername(c *fiber.Ctx) error {
	username := c.Params("username")

	taken, err := a.Repo.Users().UsernameTaken(c.UserContext(), username)
	if err != nil {
		return MapError(c, err)
	}
	if taken {
		return SendError(c, fiber.StatusNotAcceptable, "username is taken")
	}

	return SendMessage(c, fiber.StatusAccepted, "username is available")
}
