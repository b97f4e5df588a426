package authsync

import (
	"context"
	"time"
)

const (
	// DefaultCookieName is the cookie the edge filter reads.
	DefaultCookieName = "auth-token"
	// DefaultCookieDuration is fixed and intentionally decoupled from the
	// bearer token's own, typically shorter, expiry.
	DefaultCookieDuration = 24 * time.Hour
)

// TokenBridge mirrors the provider's bearer token into a cookie so the edge
// filter, which shares no memory with this process's state, can see it.
// Every failure here is non-fatal: a broken cookie surface must never block
// the state store update.
type TokenBridge struct {
	provider IdentityProvider
	jar      CookieJar
	name     string
	ttl      time.Duration
	logger   Logger
}

// TokenBridgeOption customizes bridge construction.
type TokenBridgeOption func(*TokenBridge)

// WithBridgeCookieName overrides the cookie name.
func WithBridgeCookieName(name string) TokenBridgeOption {
	return func(b *TokenBridge) {
		if name != "" {
			b.name = name
		}
	}
}

// WithBridgeCookieTTL overrides the fixed cookie TTL.
func WithBridgeCookieTTL(ttl time.Duration) TokenBridgeOption {
	return func(b *TokenBridge) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// WithBridgeLogger overrides the default logger.
func WithBridgeLogger(logger Logger) TokenBridgeOption {
	return func(b *TokenBridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewTokenBridge returns a bridge writing through the given jar.
func NewTokenBridge(provider IdentityProvider, jar CookieJar, opts ...TokenBridgeOption) *TokenBridge {
	bridge := &TokenBridge{
		provider: provider,
		jar:      jar,
		name:     DefaultCookieName,
		ttl:      DefaultCookieDuration,
		logger:   defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(bridge)
		}
	}
	return bridge
}

// CookieName returns the configured cookie name.
func (b *TokenBridge) CookieName() string {
	return b.name
}

// Refresh fetches a fresh bearer token for the credential and writes the
// cookie with the fixed TTL.
func (b *TokenBridge) Refresh(ctx context.Context, cred Credential) {
	if cred == nil || b.jar == nil {
		return
	}

	token, err := b.provider.Token(ctx, cred)
	if err != nil {
		b.logger.Warn("token bridge could not fetch bearer token", "uid", cred.ID(), "error", err)
		return
	}

	b.WriteTo(b.jar, token)
}

// WriteTo writes an already-minted token through an explicit jar. The HTTP
// controller uses this to set the cookie on the response of the request that
// performed the login, ahead of the listener's own Refresh.
func (b *TokenBridge) WriteTo(jar CookieJar, token string) {
	if jar == nil || token == "" {
		return
	}
	if err := jar.SetCookie(b.name, token, b.ttl); err != nil {
		b.logger.Warn("token bridge could not write cookie", "cookie", b.name, "error", err)
	}
}

// Clear deletes the cookie on sign-out.
func (b *TokenBridge) Clear() {
	b.ClearFrom(b.jar)
}

// ClearFrom deletes the cookie through an explicit jar.
func (b *TokenBridge) ClearFrom(jar CookieJar) {
	if jar == nil {
		return
	}
	if err := jar.DeleteCookie(b.name); err != nil {
		b.logger.Warn("token bridge could not delete cookie", "cookie", b.name, "error", err)
	}
}
