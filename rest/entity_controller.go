package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// EntityController is the generic CRUD/listing controller. Brands,
// categories, products, comments, and users all answer through one of these,
// parameterized with a bind function and a view renderer.
type EntityController[T any] struct {
	Name   string
	Repo   catalog.Entities[T]
	Logger catalog.Logger

	// Bind parses and validates the request payload into a model.
	Bind func(c *fiber.Ctx) (T, error)
	// Render converts a model into its wire view.
	Render func(T) any
	// SetID stamps the route identifier onto a bound payload for updates.
	SetID func(T, uuid.UUID)
}

type EntityControllerOption[T any] func(*EntityController[T]) *EntityController[T]

// NewEntityController creates a controller and panics on missing wiring,
// this runs at boot, not per request.
func NewEntityController[T any](name string, repo catalog.Entities[T], opts ...EntityControllerOption[T]) *EntityController[T] {
	ctrl := &EntityController[T]{
		Name:   name,
		Repo:   repo,
		Logger: catalog.DefaultLogger(),
	}

	for _, opt := range opts {
		ctrl = opt(ctrl)
	}

	if ctrl.Repo == nil {
		panic("REST: entity controller " + name + " requires a repository")
	}
	if ctrl.Bind == nil || ctrl.Render == nil || ctrl.SetID == nil {
		panic("REST: entity controller " + name + " requires Bind, Render, and SetID")
	}

	return ctrl
}

// Show answers GET /<entity>/:id. An identifier that fails to decode is a
// 404, same as one that decodes but matches nothing.
func (ec *EntityController[T]) Show(c *fiber.Ctx) error {
	id, err := opaqueid.Decode(c.Params("id"))
	if err != nil {
		return MapError(c, err)
	}

	record, err := ec.Repo.FindByID(c.UserContext(), id)
	if err != nil {
		return MapError(c, err)
	}

	return SendData(c, fiber.StatusOK, ec.Render(record))
}

// List answers POST /<entity>/list with a pagination cursor in the body.
func (ec *EntityController[T]) List(c *fiber.Ctx) error {
	cursor := catalog.Cursor{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&cursor); err != nil {
			return MapError(c, errors.Wrap(err, errors.CategoryBadInput, "invalid pagination cursor"))
		}
	}

	records, err := ec.Repo.FindPage(c.UserContext(), cursor)
	if err != nil {
		return MapError(c, err)
	}

	return SendData(c, fiber.StatusOK, mapViews(records, ec.Render))
}

// Create answers POST /<entity>.
func (ec *EntityController[T]) Create(c *fiber.Ctx) error {
	record, err := ec.Bind(c)
	if err != nil {
		return MapError(c, err)
	}

	created, err := ec.Repo.Insert(c.UserContext(), record)
	if err != nil {
		ec.Logger.Error("create %s failed: %v", ec.Name, err)
		return MapError(c, err)
	}

	return SendData(c, fiber.StatusCreated, ec.Render(created))
}

// Update answers PUT /<entity>/:id. Any failure, bad payload, unknown id,
// storage error, reads as not acceptable.
func (ec *EntityController[T]) Update(c *fiber.Ctx) error {
	id, err := opaqueid.Decode(c.Params("id"))
	if err != nil {
		return SendError(c, fiber.StatusNotAcceptable, "could not update "+ec.Name)
	}

	record, err := ec.Bind(c)
	if err != nil {
		return SendError(c, fiber.StatusNotAcceptable, "could not update "+ec.Name)
	}
	ec.SetID(record, id)

	updated, err := ec.Repo.Update(c.UserContext(), record)
	if err != nil {
		ec.Logger.Error("update %s %s failed: %v", ec.Name, c.Params("id"), err)
		return SendError(c, fiber.StatusNotAcceptable, "could not update "+ec.Name)
	}

	return SendData(c, fiber.StatusAccepted, ec.Render(updated))
}

// Delete answers DELETE /<entity>/:id by unpublishing the record. A missing
// or already inactive record is a 404.
func (ec *EntityController[T]) Delete(c *fiber.Ctx) error {
	id, err := opaqueid.Decode(c.Params("id"))
	if err != nil {
		return MapError(c, err)
	}

	if err := ec.Repo.SoftDelete(c.UserContext(), id); err != nil {
		return MapError(c, err)
	}

	return SendMessage(c, fiber.StatusAccepted, ec.Name+" deleted")
}
