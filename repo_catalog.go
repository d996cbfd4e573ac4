package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Entities is the capability surface shared by every catalog entity store:
// find by id, find a keyset page, insert, update, soft delete. It exists so
// brands, categories, products, and comments do not each reimplement the
// same five queries.
type Entities[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (T, error)
	FindPage(ctx context.Context, cursor Cursor) ([]T, error)
	Insert(ctx context.Context, record T) (T, error)
	InsertTx(ctx context.Context, tx bun.IDB, record T) (T, error)
	Update(ctx context.Context, record T) (T, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// EntityHandlers adapt a concrete model to the generic repository, following
// the ModelHandlers shape used by the users repository.
type EntityHandlers[T any] struct {
	NewRecord func() T
	GetID     func(T) uuid.UUID
	SetID     func(T, uuid.UUID)
}

type entities[T any] struct {
	db        *bun.DB
	handlers  EntityHandlers[T]
	relations []string
}

// NewEntitiesRepository builds a bun backed Entities store. Relations are
// loaded on every read (e.g. "Brand", "Categories" for products).
func NewEntitiesRepository[T any](db *bun.DB, handlers EntityHandlers[T], relations ...string) Entities[T] {
	return &entities[T]{
		db:        db,
		handlers:  handlers,
		relations: relations,
	}
}

func (e *entities[T]) withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	for _, rel := range e.relations {
		q = q.Relation(rel)
	}
	return q
}

func (e *entities[T]) FindByID(ctx context.Context, id uuid.UUID) (T, error) {
	record := e.handlers.NewRecord()

	q := e.db.NewSelect().Model(record)
	q = e.withRelations(q)

	err := q.
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.published = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		var zero T
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return zero, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return zero, err
	}

	return record, nil
}

// FindPage resolves the cursor and returns one keyset page. A short page
// signals the end of the list; there is no count query.
func (e *entities[T]) FindPage(ctx context.Context, cursor Cursor) ([]T, error) {
	ks, err := cursor.Resolve()
	if err != nil {
		return nil, err
	}

	records := []T{}
	q := e.db.NewSelect().Model(&records)
	q = e.withRelations(q)

	if err := ks.Apply(q).Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (e *entities[T]) Insert(ctx context.Context, record T) (T, error) {
	return e.InsertTx(ctx, e.db, record)
}

func (e *entities[T]) InsertTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	if e.handlers.GetID(record) == uuid.Nil {
		e.handlers.SetID(record, NewID())
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		var zero T
		return zero, err
	}

	return record, nil
}

// Update applies a single row conditional update: zero affected rows means
// the record is missing. Zero valued fields are skipped so partial payloads
// do not blank out columns.
func (e *entities[T]) Update(ctx context.Context, record T) (T, error) {
	return e.updateTx(ctx, e.db, record)
}

func (e *entities[T]) updateTx(ctx context.Context, tx bun.IDB, record T) (T, error) {
	var zero T

	id := e.handlers.GetID(record)
	if id == uuid.Nil {
		return zero, repository.NewRecordNotFound()
	}

	// Value instead of Set: an explicit Set clause makes bun drop the model
	// columns from the statement entirely.
	res, err := tx.NewUpdate().
		Model(record).
		OmitZero().
		Value("updated_at", "?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return zero, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return zero, err
	}
	if affected == 0 {
		return zero, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return e.FindByID(ctx, id)
}

// SoftDelete unpublishes the record; already inactive rows report not found.
func (e *entities[T]) SoftDelete(ctx context.Context, id uuid.UUID) error {
	record := e.handlers.NewRecord()

	res, err := e.db.NewUpdate().
		Model(record).
		Set("published = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("published = ?", true).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}
	return nil
}

// Products extends the generic store with product specific lookups and a
// transactional update, since product mutations will eventually touch the
// category join table as well.
type Products interface {
	Entities[*Product]

	FindByURLName(ctx context.Context, urlName string) (*Product, error)
	SearchByName(ctx context.Context, name string) ([]*Product, error)
	SetCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error
}

type products struct {
	Entities[*Product]
	db *bun.DB
}

// NewProductsRepository builds the products store with brand and category
// relations preloaded.
func NewProductsRepository(db *bun.DB) Products {
	base := NewEntitiesRepository[*Product](db, EntityHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	}, "Brand", "Categories")

	return &products{Entities: base, db: db}
}

func (p *products) FindByURLName(ctx context.Context, urlName string) (*Product, error) {
	record := &Product{}
	err := p.db.NewSelect().
		Model(record).
		Relation("Brand").
		Relation("Categories").
		Where("?TableAlias.url_name = ?", strings.TrimSpace(urlName)).
		Where("?TableAlias.published = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"url_name": urlName})
		}
		return nil, err
	}
	return record, nil
}

// SearchByName matches case insensitively anywhere in the name, capped at 30
// rows, newest first.
func (p *products) SearchByName(ctx context.Context, name string) ([]*Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"

	records := []*Product{}
	err := p.db.NewSelect().
		Model(&records).
		Relation("Brand").
		Relation("Categories").
		Where("LOWER(?TableAlias.name) LIKE ?", pattern).
		Where("?TableAlias.published = ?", true).
		OrderExpr("?TableAlias.id DESC").
		Limit(30).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Update wraps the single row update in a transaction so future multi table
// product writes stay consistent.
func (p *products) Update(ctx context.Context, record *Product) (*Product, error) {
	var updated *Product
	err := p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		updated, err = p.Entities.(*entities[*Product]).updateTx(ctx, tx, record)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetCategories replaces the product/category join rows.
func (p *products) SetCategories(ctx context.Context, productID uuid.UUID, categoryIDs []uuid.UUID) error {
	return p.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ProductCategory)(nil)).
			Where("product_id = ?", productID).
			Exec(ctx); err != nil {
			return err
		}

		if len(categoryIDs) == 0 {
			return nil
		}

		joins := make([]*ProductCategory, 0, len(categoryIDs))
		for _, cid := range categoryIDs {
			joins = append(joins, &ProductCategory{
				ProductID:  productID,
				CategoryID: cid,
			})
		}

		_, err := tx.NewInsert().Model(&joins).Exec(ctx)
		return err
	})
}
