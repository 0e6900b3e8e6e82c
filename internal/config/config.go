package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=mealplan port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
	minJWTSecretLength = 32
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrJWTSecretShort   = fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	ErrUnknownDBDriver  = errors.New("DB_DRIVER must be postgres or sqlite")
)

type Config struct {
	AppEnv      string        `env:"APP_ENV" envDefault:"development"`
	HTTPPort    string        `env:"HTTP_PORT" envDefault:"8080"`
	DBDriver    string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseDSN string        `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=mealplan port=5432 sslmode=disable"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`
	CORSOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	// Empty disables the catalog cache.
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	NotificationPageSize int    `env:"NOTIFICATION_PAGE_SIZE" envDefault:"20"`
	OrderTimezone        string `env:"ORDER_TIMEZONE" envDefault:"UTC"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.DatabaseDSN == defaultDSN {
		slog.Warn("DATABASE_DSN uses the default value, set your own Postgres connection for production")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		slog.Warn("CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return ErrJWTSecretMissing
	}
	if len(c.JWTSecret) < minJWTSecretLength {
		return ErrJWTSecretShort
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDBDriver, c.DBDriver)
	}
	if c.NotificationPageSize <= 0 {
		c.NotificationPageSize = 20
	}
	if _, err := time.LoadLocation(c.OrderTimezone); err != nil {
		return fmt.Errorf("ORDER_TIMEZONE: %w", err)
	}
	return nil
}

// CORSOriginList splits the comma separated origins and trims each one.
func (c *Config) CORSOriginList() []string {
	origins := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Location is the timezone used to decide "today" for order dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.OrderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
