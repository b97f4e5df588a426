package authsync

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Credential is the provider-owned identity snapshot attached to a sign-in
// event. It carries no role; roles live on the persisted Profile.
type Credential interface {
	ID() string
	Email() string
	DisplayName() string
}

// CredentialEvent is published by an IdentityProvider whenever credential
// state changes. A nil Credential means signed out.
type CredentialEvent struct {
	Credential Credential
}

// SignedIn reports whether the event carries a live credential.
func (e CredentialEvent) SignedIn() bool {
	return e.Credential != nil
}

// IdentityProvider is the external service that owns credentials and mints
// short-lived bearer tokens. Implementations must re-emit a CredentialEvent
// after SignIn, SignUp and SignOut so the Listener drives all state updates.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (Credential, error)
	SignUp(ctx context.Context, name, email, password string) (Credential, error)
	SignOut(ctx context.Context) error

	// Token returns a fresh bearer token for the credential. The token's own
	// expiry is independent of the auth cookie's TTL.
	Token(ctx context.Context, cred Credential) (string, error)

	// Events returns the credential event stream. The channel is owned by the
	// provider and closed when the provider shuts down.
	Events() <-chan CredentialEvent
}

// DocumentStore is the persistence boundary: point reads/writes and
// equality-filtered queries over schema-less records grouped in collections.
type DocumentStore interface {
	Get(ctx context.Context, collection, key string) (map[string]any, error)
	Set(ctx context.Context, collection, key string, doc map[string]any) error
	Update(ctx context.Context, collection, key string, fields map[string]any) error
	Query(ctx context.Context, collection, field string, value any) ([]map[string]any, error)
	List(ctx context.Context, collection string) ([]map[string]any, error)
}

// CookieJar abstracts the cookie surface the TokenBridge writes through. The
// edge filter reads the same cookie on its own, with no shared memory.
type CookieJar interface {
	SetCookie(name, value string, ttl time.Duration) error
	DeleteCookie(name string) error
}

// Navigator performs client-side navigation on behalf of a guard.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	if f != nil {
		f(path)
	}
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetCookieName() string
	GetCookieDuration() int
	GetIssuer() string
	GetAudience() []string
	GetProtectedPrefixes() []string
	GetLoginPath() string
	GetUnauthorizedPath() string
}

// NewDefaultLogger returns the stdout fallback logger used when callers do
// not inject their own.
func NewDefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHSYNC "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHSYNC "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHSYNC "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHSYNC "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
