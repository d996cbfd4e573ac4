package rest

import (
	"time"

	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/opaqueid"
)

// Views are the wire representations of the catalog models. Identifiers
// leave the service in their opaque encoded form only.

type UserView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type BrandView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URLName     string     `json:"url_name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type CategoryView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URLName     string     `json:"url_name"`
	Description string     `json:"description"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

type ProductView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	URLName     string          `json:"url_name"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Brand       *BrandView      `json:"brand,omitempty"`
	Categories  []*CategoryView `json:"categories,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

type CommentView struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	ProductID string     `json:"product_id"`
	UserID    string     `json:"user_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func NewUserView(u *catalog.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:        opaqueid.Encode(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func NewBrandView(b *catalog.Brand) *BrandView {
	if b == nil {
		return nil
	}
	return &BrandView{
		ID:          opaqueid.Encode(b.ID),
		Name:        b.Name,
		URLName:     b.URLName,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
	}
}

func NewCategoryView(c *catalog.Category) *CategoryView {
	if c == nil {
		return nil
	}
	return &CategoryView{
		ID:          opaqueid.Encode(c.ID),
		Name:        c.Name,
		URLName:     c.URLName,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func NewProductView(p *catalog.Product) *ProductView {
	if p == nil {
		return nil
	}
	view := &ProductView{
		ID:          opaqueid.Encode(p.ID),
		Name:        p.Name,
		URLName:     p.URLName,
		Description: p.Description,
		Image:       p.Image,
		Brand:       NewBrandView(p.Brand),
		CreatedAt:   p.CreatedAt,
	}
	for _, cat := range p.Categories {
		view.Categories = append(view.Categories, NewCategoryView(cat))
	}
	return view
}

func NewCommentView(c *catalog.Comment) *CommentView {
	if c == nil {
		return nil
	}
	return &CommentView{
		ID:        opaqueid.Encode(c.ID),
		Text:      c.Text,
		ProductID: opaqueid.Encode(c.ProductID),
		UserID:    opaqueid.Encode(c.UserID),
		CreatedAt: c.CreatedAt,
	}
}

func mapViews[T any, V any](records []T, convert func(T) V) []V {
	views := make([]V, 0, len(records))
	for _, record := range records {
		views = append(views, convert(record))
	}
	return views
}
