package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Brand is the brand model.
type Brand struct {
	bun.BaseModel `bun:"table:brands,alias:brd"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	URLName       string     `bun:"url_name,notnull,unique" json:"url_name"`
	Description   string     `bun:"description,notnull" json:"description"`
	Published     bool       `bun:"published,notnull,default:true" json:"published"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Category is the category model.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	URLName       string     `bun:"url_name,notnull,unique" json:"url_name"`
	Description   string     `bun:"description,notnull" json:"description"`
	Published     bool       `bun:"published,notnull,default:true" json:"published"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Product is the product model. Brand is optional; categories attach through
// the product_categories join table.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string      `bun:"name,notnull" json:"name"`
	URLName       string      `bun:"url_name,notnull,unique" json:"url_name"`
	Description   string      `bun:"description,notnull" json:"description"`
	Image         string      `bun:"image" json:"image,omitempty"`
	BrandID       *uuid.UUID  `bun:"brand_id,nullzero,type:uuid" json:"brand_id,omitempty"`
	Brand         *Brand      `bun:"rel:belongs-to,join:brand_id=id" json:"brand,omitempty"`
	Categories    []*Category `bun:"m2m:product_categories,join:Product=Category" json:"categories,omitempty"`
	Published     bool        `bun:"published,notnull,default:true" json:"published"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// ProductCategory is the m2m join between products and categories.
type ProductCategory struct {
	bun.BaseModel `bun:"table:product_categories,alias:pct"`
	ProductID     uuid.UUID `bun:"product_id,pk,type:uuid" json:"product_id"`
	Product       *Product  `bun:"rel:belongs-to,join:product_id=id" json:"-"`
	CategoryID    uuid.UUID `bun:"category_id,pk,type:uuid" json:"category_id"`
	Category      *Category `bun:"rel:belongs-to,join:category_id=id" json:"-"`
}

// Comment is the product comment model.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Text          string     `bun:"text,notnull" json:"text"`
	ProductID     uuid.UUID  `bun:"product_id,notnull,type:uuid" json:"product_id"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id"`
	Published     bool       `bun:"published,notnull,default:true" json:"published"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
