package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Environment names
const (
	EnvDev        = "dev"
	EnvTest       = "test"
	EnvProduction = "production"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	DatabaseURL string `env:"DATABASE_URL"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	// Auth
	AuthDomain      string        `env:"AUTH_DOMAIN"`
	JWKSURL         string        `env:"AUTH_JWKS_URL"` // Defaults to https://<AUTH_DOMAIN>/.well-known/jwks.json
	Issuer          string        `env:"AUTH_ISSUER"`   // Defaults to https://<AUTH_DOMAIN>/
	Audience        string        `env:"AUTH_AUDIENCE"`
	RolesClaim      string        `env:"AUTH_ROLES_CLAIM" envDefault:"http:auth/roles"`
	JWKSRefresh     time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"1h"`
	JWKSPerMinute   int           `env:"JWKS_REQUESTS_PER_MINUTE" envDefault:"5"`
	JWKSHTTPTimeout time.Duration `env:"JWKS_HTTP_TIMEOUT" envDefault:"10s"`

	// Logging
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// Load parses environment variables and fills derived auth settings
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.AuthDomain != "" {
		if cfg.JWKSURL == "" {
			cfg.JWKSURL = fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.AuthDomain)
		}
		if cfg.Issuer == "" {
			cfg.Issuer = fmt.Sprintf("https://%s/", cfg.AuthDomain)
		}
	}

	return cfg, nil
}

// Validate checks the settings the API server needs. In production the
// token audience and issuer must be pinned and a database configured.
func (c *Config) Validate() error {
	if c.JWKSURL == "" {
		return errors.New("AUTH_DOMAIN or AUTH_JWKS_URL is required")
	}
	if !c.IsProduction() {
		return nil
	}
	if c.Audience == "" {
		return errors.New("AUTH_AUDIENCE is required in production")
	}
	if c.Issuer == "" {
		return errors.New("AUTH_ISSUER or AUTH_DOMAIN is required in production")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required in production")
	}
	return nil
}

// IsProduction gates destructive operations such as truncate and reset
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// IsDev enables debug logging
func (c *Config) IsDev() bool {
	return c.Environment == EnvDev
}

// AllowedOrigins splits CORSOrigins, dropping blanks
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
