package rest

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// BrandPayload is the create/update body for brands.
type BrandPayload struct {
	Name        string `json:"name"`
	URLName     string `json:"url_name"`
	Description string `json:"description"`
}

// Validate will run validation rules.
func (p BrandPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.URLName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required),
	)
}

// CategoryPayload is the create/update body for categories.
type CategoryPayload struct {
	Name        string `json:"name"`
	URLName     string `json:"url_name"`
	Description string `json:"description"`
}

// Validate will run validation rules.
func (p CategoryPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.URLName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required),
	)
}

// ProductPayload is the create/update body for products. BrandID and
// CategoryIDs carry opaque encoded identifiers.
type ProductPayload struct {
	Name        string   `json:"name"`
	URLName     string   `json:"url_name"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	BrandID     string   `json:"brand_id"`
	CategoryIDs []string `json:"category_ids"`
}

// Validate will run validation rules.
func (p ProductPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.URLName, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Description, validation.Required),
	)
}

// CommentPayload is the create/update body for comments. ProductID carries
// the opaque encoded product identifier; the author comes from the request
// identity, never the payload.
type CommentPayload struct {
	Text      string `json:"text"`
	ProductID string `json:"product_id"`
}

// Validate will run validation rules.
func (p CommentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Text, validation.Required, validation.Length(1, 2000)),
		validation.Field(&p.ProductID, validation.Required),
	)
}

func bindBrand(c *fiber.Ctx) (*catalog.Brand, error) {
	payload := BrandPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse brand payload")
	}
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid brand payload")
	}
	return &catalog.Brand{
		Name:        strings.TrimSpace(payload.Name),
		URLName:     strings.TrimSpace(payload.URLName),
		Description: payload.Description,
	}, nil
}

func bindCategory(c *fiber.Ctx) (*catalog.Category, error) {
	payload := CategoryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse category payload")
	}
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid category payload")
	}
	return &catalog.Category{
		Name:        strings.TrimSpace(payload.Name),
		URLName:     strings.TrimSpace(payload.URLName),
		Description: payload.Description,
	}, nil
}

// bindProduct returns the model plus the decoded category ids; the join rows
// are written separately after the product row exists.
func bindProduct(c *fiber.Ctx) (*catalog.Product, []uuid.UUID, error) {
	payload := ProductPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse product payload")
	}
	if err := payload.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, errors.CategoryValidation, "invalid product payload")
	}

	product := &catalog.Product{
		Name:        strings.TrimSpace(payload.Name),
		URLName:     strings.TrimSpace(payload.URLName),
		Description: payload.Description,
		Image:       payload.Image,
	}

	if payload.BrandID != "" {
		brandID, err := opaqueid.Decode(payload.BrandID)
		if err != nil {
			return nil, nil, err
		}
		product.BrandID = &brandID
	}

	categoryIDs := make([]uuid.UUID, 0, len(payload.CategoryIDs))
	for _, encoded := range payload.CategoryIDs {
		id, err := opaqueid.Decode(encoded)
		if err != nil {
			return nil, nil, err
		}
		categoryIDs = append(categoryIDs, id)
	}

	return product, categoryIDs, nil
}

func bindComment(c *fiber.Ctx) (*catalog.Comment, error) {
	payload := CommentPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to parse comment payload")
	}
	if err := payload.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid comment payload")
	}

	productID, err := opaqueid.Decode(payload.ProductID)
	if err != nil {
		return nil, err
	}

	identity, ok := catalog.RequestIdentityFromContext(c.UserContext())
	if !ok {
		return nil, catalog.ErrIdentityNotFound
	}

	return &catalog.Comment{
		Text:      strings.TrimSpace(payload.Text),
		ProductID: productID,
		UserID:    identity.UserID,
	}, nil
}
