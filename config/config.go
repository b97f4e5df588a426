// Package config loads the auth sync configuration from environment
// variables, with a .env file honored in development.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	authsync "github.com/workbridge/go-authsync"
)

// AppConfig is the environment-driven configuration. It satisfies the root
// package's Config interface through its getters.
type AppConfig struct {
	// SigningKey signs the HS256 bearer tokens.
	SigningKey string `env:"AUTH_SIGNING_KEY,required"`

	// TokenExpiration is the bearer token lifetime in hours. It is shorter
	// than the cookie's on purpose; the cookie only marks presence.
	TokenExpiration int `env:"AUTH_TOKEN_EXPIRATION" envDefault:"1"`

	// CookieName is the auth cookie the edge filter reads.
	CookieName string `env:"AUTH_COOKIE_NAME" envDefault:"auth-token"`

	// CookieDuration is the auth cookie lifetime in hours.
	CookieDuration int `env:"AUTH_COOKIE_DURATION" envDefault:"24"`

	Issuer   string   `env:"AUTH_ISSUER" envDefault:"go-authsync"`
	Audience []string `env:"AUTH_AUDIENCE" envSeparator:","`

	// ProtectedPrefixes are the path prefixes the edge filter gates.
	ProtectedPrefixes []string `env:"AUTH_PROTECTED_PREFIXES" envSeparator:"," envDefault:"/dashboard,/settings,/clients"`

	LoginPath        string `env:"AUTH_LOGIN_PATH" envDefault:"/auth/login"`
	UnauthorizedPath string `env:"AUTH_UNAUTHORIZED_PATH" envDefault:"/unauthorized"`

	// DatabaseDSN points at the bun database holding identities and documents.
	DatabaseDSN string `env:"AUTH_DATABASE_DSN" envDefault:"file::memory:?cache=shared"`

	Debug bool `env:"AUTH_DEBUG" envDefault:"false"`
}

var _ authsync.Config = (*AppConfig)(nil)

// Load reads a .env file when present, then parses the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from env.
func (c *AppConfig) Sanitize() {
	if c.TokenExpiration <= 0 {
		c.TokenExpiration = 1
	}
	if c.CookieDuration <= 0 {
		c.CookieDuration = 24
	}
	if c.CookieName == "" {
		c.CookieName = "auth-token"
	}
}

func (c *AppConfig) GetSigningKey() string          { return c.SigningKey }
func (c *AppConfig) GetTokenExpiration() int        { return c.TokenExpiration }
func (c *AppConfig) GetCookieName() string          { return c.CookieName }
func (c *AppConfig) GetCookieDuration() int         { return c.CookieDuration }
func (c *AppConfig) GetIssuer() string              { return c.Issuer }
func (c *AppConfig) GetAudience() []string          { return c.Audience }
func (c *AppConfig) GetProtectedPrefixes() []string { return c.ProtectedPrefixes }
func (c *AppConfig) GetLoginPath() string           { return c.LoginPath }
func (c *AppConfig) GetUnauthorizedPath() string    { return c.UnauthorizedPath }
