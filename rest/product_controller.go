package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/google/uuid"
)

// ProductController layers the product specific behavior over the generic
// controller: category joins on create/update, url name lookup, and search.
type ProductController struct {
	*EntityController[*catalog.Product]
	products catalog.Products
}

// NewProductController wires the product endpoints.
func NewProductController(products catalog.Products) *ProductController {
	base := NewEntityController[*catalog.Product]("product", products,
		func(ctrl *EntityController[*catalog.Product]) *EntityController[*catalog.Product] {
			ctrl.Bind = func(c *fiber.Ctx) (*catalog.Product, error) {
				product, _, err := bindProduct(c)
				return product, err
			}
			ctrl.Render = func(p *catalog.Product) any { return NewProductView(p) }
			ctrl.SetID = func(p *catalog.Product, id uuid.UUID) { p.ID = id }
			return ctrl
		},
	)

	return &ProductController{
		EntityController: base,
		products:         products,
	}
}

// Create inserts the product and attaches its categories.
func (pc *ProductController) Create(c *fiber.Ctx) error {
	product, categoryIDs, err := bindProduct(c)
	if err != nil {
		return MapError(c, err)
	}

	created, err := pc.products.Insert(c.UserContext(), product)
	if err != nil {
		pc.Logger.Error("create product failed: %v", err)
		return MapError(c, err)
	}

	if len(categoryIDs) > 0 {
		if err := pc.products.SetCategories(c.UserContext(), created.ID, categoryIDs); err != nil {
			pc.Logger.Error("attach categories to product %s failed: %v", created.ID, err)
			return MapError(c, err)
		}
	}

	created, err = pc.products.FindByID(c.UserContext(), created.ID)
	if err != nil {
		return MapError(c, err)
	}

	return SendData(c, fiber.StatusCreated, NewProductView(created))
}

// Update rewrites the product row and, when the payload names categories,
// replaces the join rows.
func (pc *ProductController) Update(c *fiber.Ctx) error {
	id, err := opaqueid.Decode(c.Params("id"))
	if err != nil {
		return SendError(c, fiber.StatusNotAcceptable, "could not update product")
	}

	product, categoryIDs, err := bindProduct(c)
	if err != nil {
		return SendError(c, fiber.StatusNotAcceptable, "could not update product")
	}
	product.ID = id

	updated, err := pc.products.Update(c.UserContext(), product)
	if err != nil {
		pc.Logger.Error("update product %s failed: %v", c.Params("id"), err)
		return SendError(c, fiber.StatusNotAcceptable, "could not update product")
	}

	if len(categoryIDs) > 0 {
		if err := pc.products.SetCategories(c.UserContext(), id, categoryIDs); err != nil {
			return SendError(c, fiber.StatusNotAcceptable, "could not update product")
		}
		if updated, err = pc.products.FindByID(c.UserContext(), id); err != nil {
			return MapError(c, err)
		}
	}

	return SendData(c, fiber.StatusAccepted, NewProductView(updated))
}

// ShowByURLName answers GET /p/:url_name.
func (pc *ProductController) ShowByURLName(c *fiber.Ctx) error {
	product, err := pc.products.FindByURLName(c.UserContext(), c.Params("url_name"))
	if err != nil {
		return MapError(c, err)
	}
	return SendData(c, fiber.StatusOK, NewProductView(product))
}

// Search answers GET /product/search/:name.
func (pc *ProductController) Search(c *fiber.Ctx) error {
	products, err := pc.products.SearchByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return MapError(c, err)
	}
	return SendData(c, fiber.StatusOK, mapViews(products, func(p *catalog.Product) any {
		return NewProductView(p)
	}))
}
