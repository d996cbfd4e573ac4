package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/goliatone/go-catalog"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Config holds runtime settings for the catalog server. Defaults suit local
// development; environment variables override defaults, flags override both.
type Config struct {
	Addr            string
	DatabaseDSN     string
	SigningKey      string
	Issuer          string
	ContextKey      string
	AuthScheme      string
	AccessTokenTTL  int
	RefreshTokenTTL int
	BcryptCost      int
	Debug           bool
}

var _ catalog.Config = (*Config)(nil)

// LoadDefaults populates Config with development defaults. The signing key
// is insecure on purpose and must be overridden outside local runs.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = "file:catalog.db?cache=shared&mode=rwc"
	c.SigningKey = "dev-signing-key"
	c.Issuer = "catalog"
	c.ContextKey = "user"
	c.AuthScheme = "Bearer"
	c.AccessTokenTTL = catalog.DefaultAccessTokenTTL
	c.RefreshTokenTTL = catalog.DefaultRefreshTokenTTL
	c.BcryptCost = catalog.DefaultBcryptCost
}

// LoadConfig builds a Config by applying defaults, then environment
// variables, then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	envString("CATALOG_ADDR", &cfg.Addr)
	envString("CATALOG_DATABASE_DSN", &cfg.DatabaseDSN)
	envString("CATALOG_SIGNING_KEY", &cfg.SigningKey)
	envString("CATALOG_ISSUER", &cfg.Issuer)
	envInt("CATALOG_ACCESS_TOKEN_TTL", &cfg.AccessTokenTTL)
	envInt("CATALOG_REFRESH_TOKEN_TTL", &cfg.RefreshTokenTTL)
	envInt("CATALOG_BCRYPT_COST", &cfg.BcryptCost)
	if v, ok := os.LookupEnv("CATALOG_DEBUG"); ok {
		cfg.Debug = v == "1" || v == "true"
	}
}

func envString(key string, target *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func envInt(key string, target *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func parseFlags(cfg *Config) {
	flag.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	flag.StringVar(&cfg.SigningKey, "s", cfg.SigningKey, "JWT HMAC signing key")
	flag.IntVar(&cfg.AccessTokenTTL, "t", cfg.AccessTokenTTL, "access token validity (seconds)")
	flag.IntVar(&cfg.RefreshTokenTTL, "r", cfg.RefreshTokenTTL, "refresh token validity (seconds)")
	flag.BoolVar(&cfg.Debug, "v", cfg.Debug, "verbose query logging")
	flag.Parse()
}

func (c *Config) GetSigningKey() string  { return c.SigningKey }
func (c *Config) GetContextKey() string  { return c.ContextKey }
func (c *Config) GetAuthScheme() string  { return c.AuthScheme }
func (c *Config) GetIssuer() string      { return c.Issuer }
func (c *Config) GetAccessTokenTTL() int { return c.AccessTokenTTL }
func (c *Config) GetRefreshTokenTTL() int {
	return c.RefreshTokenTTL
}
func (c *Config) GetBcryptCost() int { return c.BcryptCost }

// GetDebug satisfies the persistence client's config surface.
func (c *Config) GetDebug() bool { return c.Debug }

// GetPingTimeout satisfies the persistence client's config surface.
func (c *Config) GetPingTimeout() time.Duration { return 5 * time.Second }

// GetDriver satisfies the persistence client's config surface; the DB handle
// is opened with the same driver in main.
func (c *Config) GetDriver() string { return sqliteshim.ShimName }

// GetServer satisfies the persistence client's config surface.
func (c *Config) GetServer() string { return c.DatabaseDSN }

// GetOtelIdentifier satisfies the persistence client's config surface; no
// otel collector is wired.
func (c *Config) GetOtelIdentifier() string { return "" }
