package rest

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/middleware/jwtware"
	"github.com/google/uuid"
)

// RouterConfig carries everything the HTTP surface needs.
type RouterConfig struct {
	Repo     catalog.RepositoryManager
	Auther   catalog.Authenticator
	Register *catalog.RegisterUserHandler
	Tokens   catalog.TokenService
	Logger   catalog.Logger

	ContextKey string
	AuthScheme string
}

// tokenValidator bridges the token service into the middleware's narrower
// interface.
type tokenValidator struct {
	tokens catalog.TokenService
}

func (v tokenValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Protected builds the bearer middleware with the per request account check.
func Protected(cfg RouterConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator: tokenValidator{tokens: cfg.Tokens},
		ContextKey:     cfg.ContextKey,
		AuthScheme:     cfg.AuthScheme,
		IdentityChecker: func(ctx context.Context, userID uuid.UUID) error {
			_, err := cfg.Repo.Users().GetActiveByID(ctx, userID)
			return err
		},
		ContextEnricher: func(ctx context.Context, userID uuid.UUID, username string) context.Context {
			return catalog.WithRequestIdentity(ctx, catalog.RequestIdentity{
				UserID:   userID,
				Username: username,
			})
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
		},
	})
}

// RegisterRoutes mounts the whole HTTP surface on the fiber app.
func RegisterRoutes(app *fiber.App, cfg RouterConfig) {
	if cfg.Logger == nil {
		cfg.Logger = catalog.DefaultLogger()
	}

	protected := Protected(cfg)

	auth := NewAuthController(
		WithRepo(cfg.Repo),
		WithAuther(cfg.Auther),
		WithRegisterHandler(cfg.Register),
		WithAuthLogger(cfg.Logger),
	)

	app.Get("/", auth.Welcome)
	app.Post("/signup", auth.SignUp)
	app.Post("/signin", auth.SignIn)
	app.Post("/refresh", auth.Refresh)
	app.Get("/signout", protected, auth.SignOut)
	app.Get("/username/:username", auth.CheckUsername)

	brands := NewEntityController[*catalog.Brand]("brand", cfg.Repo.Brands(),
		func(ctrl *EntityController[*catalog.Brand]) *EntityController[*catalog.Brand] {
			ctrl.Bind = bindBrand
			ctrl.Render = func(b *catalog.Brand) any { return NewBrandView(b) }
			ctrl.SetID = func(b *catalog.Brand, id uuid.UUID) { b.ID = id }
			ctrl.Logger = cfg.Logger
			return ctrl
		},
	)
	registerEntityRoutes(app, "brand", brands, protected)

	categories := NewEntityController[*catalog.Category]("category", cfg.Repo.Categories(),
		func(ctrl *EntityController[*catalog.Category]) *EntityController[*catalog.Category] {
			ctrl.Bind = bindCategory
			ctrl.Render = func(c *catalog.Category) any { return NewCategoryView(c) }
			ctrl.SetID = func(c *catalog.Category, id uuid.UUID) { c.ID = id }
			ctrl.Logger = cfg.Logger
			return ctrl
		},
	)
	registerEntityRoutes(app, "category", categories, protected)

	products := NewProductController(cfg.Repo.Products())
	products.Logger = cfg.Logger
	app.Get("/p/:url_name", products.ShowByURLName)
	app.Get("/product/search/:name", products.Search)
	app.Post("/product/list", products.List)
	app.Get("/product/:id", products.Show)
	app.Post("/product", protected, products.Create)
	app.Put("/product/:id", protected, products.Update)
	app.Delete("/product/:id", protected, products.Delete)

	comments := NewEntityController[*catalog.Comment]("comment", cfg.Repo.Comments(),
		func(ctrl *EntityController[*catalog.Comment]) *EntityController[*catalog.Comment] {
			ctrl.Bind = bindComment
			ctrl.Render = func(c *catalog.Comment) any { return NewCommentView(c) }
			ctrl.SetID = func(c *catalog.Comment, id uuid.UUID) { c.ID = id }
			ctrl.Logger = cfg.Logger
			return ctrl
		},
	)
	app.Post("/comment/list", comments.List)
	app.Get("/comment/:id", comments.Show)
	app.Post("/comment", protected, comments.Create)
	app.Put("/comment/:id", protected, comments.Update)
	app.Delete("/comment/:id", protected, comments.Delete)

	users := NewUserController(cfg.Repo.Users())
	users.Logger = cfg.Logger
	app.Get("/user/:id", protected, users.Show)
	app.Delete("/user/:id", protected, users.Delete)
}

// registerEntityRoutes mounts the standard CRUD/listing routes for an
// entity: public reads, protected writes.
func registerEntityRoutes[T any](app *fiber.App, name string, ctrl *EntityController[T], protected fiber.Handler) {
	app.Post("/"+name+"/list", ctrl.List)
	app.Get("/"+name+"/:id", ctrl.Show)
	app.Post("/"+name, protected, ctrl.Create)
	app.Put("/"+name+"/:id", protected, ctrl.Update)
	app.Delete("/"+name+"/:id", protected, ctrl.Delete)
}
