package authsync

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/workbridge/go-authsync/middleware/edgefilter"
)

// Module is the fully wired auth layer built from a Config. Components keep
// their individual constructors for piecemeal use; New assembles all of them
// with the configured signing key, cookie and path settings.
type Module struct {
	Tokens       TokenService
	Bridge       *TokenBridge
	Store        *AuthStore
	Synchronizer *ProfileSynchronizer
	Actions      *AuthActions
	Listener     *Listener

	cfg    Config
	logger Logger
}

// ModuleOption customizes module construction.
type ModuleOption func(*moduleOptions)

type moduleOptions struct {
	logger Logger
	sink   ActivitySink
}

// WithModuleLogger sets the logger shared by every wired component.
func WithModuleLogger(logger Logger) ModuleOption {
	return func(o *moduleOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithModuleActivitySink records auth and profile events from the wired
// actions and synchronizer.
func WithModuleActivitySink(sink ActivitySink) ModuleOption {
	return func(o *moduleOptions) {
		o.sink = sink
	}
}

// New wires the token service, cookie bridge, state store, synchronizer,
// actions and listener from cfg. The jar receives the bridge's cookie writes;
// handlers that need same-response cookies use RouteAuthenticator instead.
func New(provider IdentityProvider, docs DocumentStore, jar CookieJar, cfg Config, opts ...ModuleOption) (*Module, error) {
	if provider == nil {
		return nil, goerrors.New("identity provider is required", goerrors.CategoryBadInput)
	}
	if docs == nil {
		return nil, goerrors.New("document store is required", goerrors.CategoryBadInput)
	}
	if jar == nil {
		return nil, goerrors.New("cookie jar is required", goerrors.CategoryBadInput)
	}
	if cfg == nil {
		return nil, goerrors.New("config is required", goerrors.CategoryBadInput)
	}

	options := moduleOptions{logger: defLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	tokens := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		jwt.ClaimStrings(cfg.GetAudience()),
		options.logger,
	)

	bridgeOpts := []TokenBridgeOption{WithBridgeLogger(options.logger)}
	if name := cfg.GetCookieName(); name != "" {
		bridgeOpts = append(bridgeOpts, WithBridgeCookieName(name))
	}
	if hours := cfg.GetCookieDuration(); hours > 0 {
		bridgeOpts = append(bridgeOpts, WithBridgeCookieTTL(time.Duration(hours)*time.Hour))
	}
	bridge := NewTokenBridge(provider, jar, bridgeOpts...)

	store := NewAuthStore(WithStoreLogger(options.logger))

	synchronizer := NewProfileSynchronizer(docs,
		WithSynchronizerLogger(options.logger),
		WithSynchronizerActivitySink(options.sink),
	)

	actions := NewAuthActions(provider, docs, bridge, store,
		WithActionsLogger(options.logger),
		WithActionsActivitySink(options.sink),
	)

	listener := NewListener(provider, bridge, synchronizer, store,
		WithListenerLogger(options.logger),
	)

	return &Module{
		Tokens:       tokens,
		Bridge:       bridge,
		Store:        store,
		Synchronizer: synchronizer,
		Actions:      actions,
		Listener:     listener,
		cfg:          cfg,
		logger:       options.logger,
	}, nil
}

// HTTPAuthenticator returns a route authenticator over the wired components.
func (m *Module) HTTPAuthenticator() (*RouteAuthenticator, error) {
	return NewHTTPAuthenticator(m.Actions, m.Tokens, m.Bridge, m.Store)
}

// EdgeFilter returns the request filter over the configured protected
// prefixes. It checks cookie presence only; token validation stays behind it.
func (m *Module) EdgeFilter() router.MiddlewareFunc {
	return edgefilter.New(edgefilter.Config{
		CookieName:        m.cfg.GetCookieName(),
		ProtectedPrefixes: m.cfg.GetProtectedPrefixes(),
		LoginPath:         m.cfg.GetLoginPath(),
	})
}

// AuthGuard returns a login guard redirecting to the configured login path.
func (m *Module) AuthGuard(nav Navigator) *AuthGuard {
	return NewAuthGuard(m.Store, nav, WithLoginRedirect(m.cfg.GetLoginPath()))
}

// RoleGuard returns a role guard redirecting mismatches to the configured
// unauthorized path.
func (m *Module) RoleGuard(nav Navigator, allowed ...Role) *RoleGuard {
	guard := NewRoleGuard(m.Store, nav, allowed...)
	if path := m.cfg.GetUnauthorizedPath(); path != "" {
		guard.redirect = path
	}
	return guard
}

// ReverseGuard returns a guard sending signed-in visitors to their dashboard.
func (m *Module) ReverseGuard(nav Navigator) *ReverseGuard {
	return NewReverseGuard(m.Store, nav)
}
