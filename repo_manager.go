package catalog

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RepositoryManager aggregates every store behind one handle so wiring code
// passes a single dependency around.
type RepositoryManager interface {
	Users() Users
	Brands() Entities[*Brand]
	Categories() Entities[*Category]
	Products() Products
	Comments() Entities[*Comment]

	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
	MustValidate()
}

type repositoryManager struct {
	db         *bun.DB
	users      Users
	brands     Entities[*Brand]
	categories Entities[*Category]
	products   Products
	comments   Entities[*Comment]
}

// NewRepositoryManager wires the per entity repositories over a shared bun
// handle.
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &repositoryManager{
		db:    db,
		users: NewUsersRepository(db),
		brands: NewEntitiesRepository[*Brand](db, EntityHandlers[*Brand]{
			NewRecord: func() *Brand { return &Brand{} },
			GetID: func(b *Brand) uuid.UUID {
				if b == nil {
					return uuid.Nil
				}
				return b.ID
			},
			SetID: func(b *Brand, id uuid.UUID) {
				if b != nil {
					b.ID = id
				}
			},
		}),
		categories: NewEntitiesRepository[*Category](db, EntityHandlers[*Category]{
			NewRecord: func() *Category { return &Category{} },
			GetID: func(c *Category) uuid.UUID {
				if c == nil {
					return uuid.Nil
				}
				return c.ID
			},
			SetID: func(c *Category, id uuid.UUID) {
				if c != nil {
					c.ID = id
				}
			},
		}),
		products: NewProductsRepository(db),
		comments: NewEntitiesRepository[*Comment](db, EntityHandlers[*Comment]{
			NewRecord: func() *Comment { return &Comment{} },
			GetID: func(c *Comment) uuid.UUID {
				if c == nil {
					return uuid.Nil
				}
				return c.ID
			},
			SetID: func(c *Comment, id uuid.UUID) {
				if c != nil {
					c.ID = id
				}
			},
		}),
	}
}

func (m *repositoryManager) Users() Users                    { return m.users }
func (m *repositoryManager) Brands() Entities[*Brand]        { return m.brands }
func (m *repositoryManager) Categories() Entities[*Category] { return m.categories }
func (m *repositoryManager) Products() Products              { return m.products }
func (m *repositoryManager) Comments() Entities[*Comment]    { return m.comments }

// RunInTx executes fn inside a transaction. Repositories called inside fn
// with the tx handle share the same transaction.
func (m *repositoryManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	if m.db == nil {
		return errors.New("repository manager has no database handle", errors.CategoryInternal)
	}
	return m.db.RunInTx(ctx, &sql.TxOptions{}, fn)
}

// Validate checks that the manager can reach the database.
func (m *repositoryManager) Validate() error {
	if m.db == nil {
		return errors.New("repository manager has no database handle", errors.CategoryInternal)
	}
	if err := m.db.Ping(); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "database ping failed")
	}
	return nil
}

// MustValidate panics when the database is unreachable. Meant for boot time.
func (m *repositoryManager) MustValidate() {
	if err := m.Validate(); err != nil {
		panic(err)
	}
}
