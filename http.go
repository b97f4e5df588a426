package authsync

import (
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RouteAuthenticator adapts the auth actions to go-router handlers. It owns
// the request-scoped cookie writes: the login response carries the token
// cookie directly instead of waiting for the listener's asynchronous refresh.
type RouteAuthenticator struct {
	actions          *AuthActions
	tokens           TokenService
	bridge           *TokenBridge
	store            *AuthStore
	Logger           Logger
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

// NewHTTPAuthenticator wires the route authenticator.
func NewHTTPAuthenticator(actions *AuthActions, tokens TokenService, bridge *TokenBridge, store *AuthStore) (*RouteAuthenticator, error) {
	if actions == nil {
		return nil, goerrors.New("auth actions are required", goerrors.CategoryBadInput)
	}
	if tokens == nil {
		return nil, goerrors.New("token service is required", goerrors.CategoryBadInput)
	}
	if bridge == nil {
		return nil, goerrors.New("token bridge is required", goerrors.CategoryBadInput)
	}

	a := &RouteAuthenticator{
		actions: actions,
		tokens:  tokens,
		bridge:  bridge,
		store:   store,
		Logger:  defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

// Login runs the credential action and sets the token cookie on this
// response.
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) error {
	cred, err := a.actions.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Error("Login error", "error", err)
		return err
	}

	token, err := a.tokens.Generate(cred)
	if err != nil {
		a.Logger.Error("Login token generation error", "error", err)
		return err
	}

	a.setCookieToken(ctx, token, a.bridge.ttl)
	return nil
}

// Logout runs the sign-out action and deletes the token cookie from this
// response.
func (a *RouteAuthenticator) Logout(ctx router.Context) {
	if err := a.actions.Logout(ctx.Context()); err != nil {
		a.Logger.Error("Logout error", "error", err)
	}
	a.cookieDel(ctx, a.bridge.CookieName())
}

// GuardHandler turns a guard into a route handler: placeholder renders the
// loading view, render falls through to next, deny returns 401 and redirect
// navigates.
func (a *RouteAuthenticator) GuardHandler(guard Guard, loadingView string, next router.HandlerFunc) router.HandlerFunc {
	return func(ctx router.Context) error {
		decision := guard.Decide(a.store.GetState())
		switch decision.Outcome {
		case GuardPlaceholder:
			return ctx.Render(loadingView, router.ViewContext{})
		case GuardRedirect:
			statusCode := http.StatusSeeOther
			if ctx.Method() == string(router.GET) {
				statusCode = http.StatusFound
			}
			return ctx.Redirect(decision.Target, statusCode)
		case GuardDeny:
			return ctx.Status(http.StatusUnauthorized).SendString("")
		default:
			return next(ctx)
		}
	}
}

// CookieJarFor returns a CookieJar writing through the request's response.
// Actions invoked from a handler can hand it to the bridge so cookie changes
// land on the same response.
func (a *RouteAuthenticator) CookieJarFor(ctx router.Context) CookieJar {
	return &routerCookieJar{ctx: ctx}
}

type routerCookieJar struct {
	ctx router.Context
}

var _ CookieJar = (*routerCookieJar)(nil)

func (j *routerCookieJar) SetCookie(name, value string, ttl time.Duration) error {
	j.ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    value,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

func (j *routerCookieJar) DeleteCookie(name string) error {
	j.ctx.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
	return nil
}

func (a *RouteAuthenticator) setCookieToken(c router.Context, val string, duration time.Duration) {
	c.Cookie(&router.Cookie{
		Name:     a.bridge.CookieName(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "An unexpected authentication error").
			WithCode(goerrors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error, redirecting to login",
		"error", richErr.Message,
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	statusCode := http.StatusSeeOther
	if c.Method() == string(router.GET) {
		statusCode = http.StatusFound
	}
	return c.Redirect(LoginPath, statusCode)
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	a.Logger.Info(
		"Middleware error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return a.AuthErrorHandler(c, richErr)
	default:
		return c.Status(richErr.Code).Render("errors/500", router.ViewContext{
			"error": richErr,
		})
	}
}

// LoginPayload is what the login handler passes to the route authenticator.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}
