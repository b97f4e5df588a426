// Package edgefilter is the coarse request-level gate in front of protected
// path prefixes. It checks only that the auth cookie is present; validating
// the token and enforcing roles belongs to the in-process guards, which see
// the profile store. A stale cookie passes here and is caught there.
package edgefilter

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-router"
)

var (
	defaultCookieName        = "auth-token"
	defaultLoginPath         = "/auth/login"
	defaultProtectedPrefixes = []string{"/dashboard", "/settings", "/clients"}
)

type Config struct {
	// CookieName is the cookie whose presence marks a signed-in browser.
	CookieName string
	// ProtectedPrefixes are the path prefixes requiring the cookie.
	ProtectedPrefixes []string
	// LoginPath is where cookie-less requests are sent.
	LoginPath string
	// Filter skips the middleware for a request when it returns true.
	Filter func(router.Context) bool
	// SuccessHandler runs when the request may proceed.
	SuccessHandler router.HandlerFunc
	// RedirectHandler overrides the default redirect response.
	RedirectHandler func(router.Context, string) error
}

func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			if !IsProtectedPath(ctx.Path(), cfg.ProtectedPrefixes) {
				return cfg.SuccessHandler(ctx)
			}

			if ctx.Cookies(cfg.CookieName) == "" {
				return cfg.RedirectHandler(ctx, cfg.LoginPath)
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}

	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}

	if len(cfg.ProtectedPrefixes) == 0 {
		cfg.ProtectedPrefixes = defaultProtectedPrefixes
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.RedirectHandler == nil {
		cfg.RedirectHandler = func(ctx router.Context, target string) error {
			statusCode := http.StatusSeeOther
			if ctx.Method() == string(router.GET) {
				statusCode = http.StatusFound
			}
			return ctx.Redirect(target, statusCode)
		}
	}

	return cfg
}

// IsProtectedPath reports whether the path falls under one of the prefixes.
// Matching is segment-aware: "/dashboard" covers "/dashboard" and
// "/dashboard/x" but not "/dashboardx".
func IsProtectedPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix == "" {
			continue
		}
		prefix = strings.TrimSuffix(prefix, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
