package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"9081"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// PathPrefix is mounted in front of every directory route
	PathPrefix string `env:"PATH_PREFIX" envDefault:"/migration"`
	UsersFile  string `env:"USERS_FILE" envDefault:"users.json"`

	// DatabaseURL switches the directory source from UsersFile to Postgres
	DatabaseURL string `env:"DATABASE_URL"`
	UsersTable  string `env:"USERS_TABLE" envDefault:"legacy_users"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.PathPrefix = "/" + strings.Trim(cfg.PathPrefix, "/")
	if cfg.PathPrefix == "/" {
		cfg.PathPrefix = ""
	}
	return cfg, nil
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}

// UsesDatabase reports whether the directory is loaded from Postgres
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != ""
}
