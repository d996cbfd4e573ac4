package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
)

// UserController serves the protected account endpoints. Accounts are not
// listable; only direct lookup and deactivation are exposed.
type UserController struct {
	Logger catalog.Logger
	Users  catalog.Users
}

// NewUserController creates the controller.
func NewUserController(users catalog.Users) *UserController {
	if users == nil {
		panic("REST: user controller requires a Users repository")
	}
	return &UserController{
		Logger: catalog.DefaultLogger(),
		Users:  users,
	}
}

// Show answers GET /user/:id for active accounts.
func (uc *UserController) Show(c *fiber.Ctx) error {
	id, err := opaqueid.Decode(c.Params("id"))
	if err != nil {
		return MapError(c, err)
	}

	user, err := uc.Users.GetActiveByID(c.UserContext(), id)
	if err != nil {
		return MapError(c, err)
	}

	return SendData(c, fiber.StatusOK, NewUserView(user))
}

// Delete answers DELETE /user/:id by unpublishing the account. Outstanding
// tokens die with it: the middleware re-checks liveness on every request.
func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := opaqueid.Decode(c.Params("id"))
	if err != nil {
		return MapError(c, err)
	}

	if err := uc.Users.SoftDelete(c.UserContext(), id); err != nil {
		return MapError(c, err)
	}

	return SendMessage(c, fiber.StatusAccepted, "user deleted")
}
