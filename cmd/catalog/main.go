package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-catalog"
	"github.com/goliatone/go-catalog/rest"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg := LoadConfig()
	logger := catalog.DefaultLogger()

	if cfg.Debug {
		fmt.Println(print.MaybePrettyJSON(cfg))
	}

	ctx := context.Background()

	db, err := withPersistence(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	repo := catalog.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := catalog.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetAccessTokenTTL(),
		cfg.GetRefreshTokenTTL(),
		cfg.GetIssuer(),
		logger,
	)

	provider := catalog.NewUserProvider(repo.Users())
	auther := catalog.NewAuthenticator(provider, tokens).WithLogger(logger)
	register := catalog.NewRegisterUserHandler(repo, cfg.GetBcryptCost()).WithLogger(logger)

	app := fiber.New(fiber.Config{
		AppName: "catalog",
	})

	rest.RegisterRoutes(app, rest.RouterConfig{
		Repo:       repo,
		Auther:     auther,
		Register:   register,
		Tokens:     tokens,
		Logger:     logger,
		ContextKey: cfg.GetContextKey(),
		AuthScheme: cfg.GetAuthScheme(),
	})

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatal(err)
		}
	}()

	logger.Info("catalog server listening on %s", cfg.Addr)

	waitExitSignal()

	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown failed: %v", err)
	}
}

func withPersistence(ctx context.Context, cfg *Config, logger catalog.Logger) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*catalog.Role)(nil))
	persistence.RegisterModel((*catalog.User)(nil))
	persistence.RegisterModel((*catalog.Brand)(nil))
	persistence.RegisterModel((*catalog.Category)(nil))
	// the join model must register before relation queries run
	persistence.RegisterModel((*catalog.ProductCategory)(nil))
	persistence.RegisterModel((*catalog.Product)(nil))
	persistence.RegisterModel((*catalog.Comment)(nil))

	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	migrationsFS, err := fs.Sub(catalog.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return nil, err
	}

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	client.RegisterFixtures(catalog.GetFixturesFS())
	if err := client.Seed(ctx); err != nil {
		return nil, err
	}

	logger.Info("persistence ready: %s", cfg.DatabaseDSN)

	return client.DB(), nil
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
