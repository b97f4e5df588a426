package authsync

import "sync"

// GuardOutcome describes what a guard wants its caller to show.
type GuardOutcome int

const (
	// GuardPlaceholder shows the loading placeholder; the state is not final yet.
	GuardPlaceholder GuardOutcome = iota
	// GuardRender shows the protected content.
	GuardRender
	// GuardDeny shows nothing; another layer owns the redirect.
	GuardDeny
	// GuardRedirect shows nothing and navigates to Target.
	GuardRedirect
)

func (o GuardOutcome) String() string {
	switch o {
	case GuardPlaceholder:
		return "placeholder"
	case GuardRender:
		return "render"
	case GuardDeny:
		return "deny"
	case GuardRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// GuardDecision is the result of evaluating a state snapshot.
type GuardDecision struct {
	Outcome GuardOutcome
	Target  string
}

// Guard turns an AuthState snapshot into a decision. Implementations are
// pure; navigation happens only through Attach's subscription effect.
type Guard interface {
	Decide(state AuthState) GuardDecision
}

// navEffect issues at most one navigation per distinct redirect decision. A
// decision other than redirect re-arms it, so evaluating the same state twice
// never navigates twice.
type navEffect struct {
	mu     sync.Mutex
	nav    Navigator
	active bool
	target string
}

func (e *navEffect) apply(d GuardDecision) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if d.Outcome != GuardRedirect {
		e.active = false
		e.target = ""
		return
	}
	if e.active && e.target == d.Target {
		return
	}

	e.active = true
	e.target = d.Target
	if e.nav != nil {
		e.nav.Navigate(d.Target)
	}
}

// attach subscribes before evaluating the current snapshot so a store
// mutation landing in between is never missed; the effect's dedup makes the
// overlapping apply harmless.
func attach(store *AuthStore, guard Guard, effect *navEffect) func() {
	unsubscribe := store.Subscribe(func(state AuthState) {
		effect.apply(guard.Decide(state))
	})
	effect.apply(guard.Decide(store.GetState()))
	return unsubscribe
}

// AuthGuard gates content on being signed in at all. Unauthenticated visitors
// are redirected to the login page.
type AuthGuard struct {
	store    *AuthStore
	redirect string
	effect   navEffect
}

var _ Guard = (*AuthGuard)(nil)

// AuthGuardOption customizes the auth guard.
type AuthGuardOption func(*AuthGuard)

// WithLoginRedirect overrides the login destination.
func WithLoginRedirect(path string) AuthGuardOption {
	return func(g *AuthGuard) {
		if path != "" {
			g.redirect = path
		}
	}
}

// NewAuthGuard returns a guard redirecting unauthenticated visitors to nav.
func NewAuthGuard(store *AuthStore, nav Navigator, opts ...AuthGuardOption) *AuthGuard {
	if store == nil {
		panic("auth guard: auth store is required")
	}
	guard := &AuthGuard{
		store:    store,
		redirect: LoginPath,
	}
	guard.effect.nav = nav
	for _, opt := range opts {
		if opt != nil {
			opt(guard)
		}
	}
	return guard
}

// Decide implements Guard.
func (g *AuthGuard) Decide(state AuthState) GuardDecision {
	if !state.AuthReady || state.IsLoading {
		return GuardDecision{Outcome: GuardPlaceholder}
	}
	if !state.IsAuthenticated {
		return GuardDecision{Outcome: GuardRedirect, Target: g.redirect}
	}
	return GuardDecision{Outcome: GuardRender}
}

// Evaluate returns the decision for the current snapshot without side effects.
func (g *AuthGuard) Evaluate() GuardDecision {
	return g.Decide(g.store.GetState())
}

// Attach subscribes the guard's navigation effect to the store. The returned
// function detaches it.
func (g *AuthGuard) Attach() func() {
	return attach(g.store, g, &g.effect)
}

// RoleGuard gates content on the profile holding one of the allowed roles.
// A missing profile on an authenticated session counts as still-resolving,
// not as a denial; a profile with a role outside the allowed set redirects to
// the unauthorized page.
type RoleGuard struct {
	store    *AuthStore
	allowed  []Role
	redirect string
	effect   navEffect
}

var _ Guard = (*RoleGuard)(nil)

// NewRoleGuard returns a guard allowing only the given roles.
func NewRoleGuard(store *AuthStore, nav Navigator, allowed ...Role) *RoleGuard {
	if store == nil {
		panic("role guard: auth store is required")
	}
	guard := &RoleGuard{
		store:    store,
		allowed:  allowed,
		redirect: UnauthorizedPath,
	}
	guard.effect.nav = nav
	return guard
}

// Decide implements Guard.
func (g *RoleGuard) Decide(state AuthState) GuardDecision {
	if !state.AuthReady || state.IsLoading {
		return GuardDecision{Outcome: GuardPlaceholder}
	}
	if !state.IsAuthenticated {
		return GuardDecision{Outcome: GuardDeny}
	}
	if state.Profile == nil {
		return GuardDecision{Outcome: GuardPlaceholder}
	}
	if !HasRole(state.Profile, g.allowed...) {
		return GuardDecision{Outcome: GuardRedirect, Target: g.redirect}
	}
	return GuardDecision{Outcome: GuardRender}
}

// Evaluate returns the decision for the current snapshot without side effects.
func (g *RoleGuard) Evaluate() GuardDecision {
	return g.Decide(g.store.GetState())
}

// Attach subscribes the guard's navigation effect to the store.
func (g *RoleGuard) Attach() func() {
	return attach(g.store, g, &g.effect)
}

// ReverseGuard gates the auth pages themselves: a signed-in user with a
// resolved, valid role is sent to that role's dashboard instead of seeing the
// login or registration form again.
type ReverseGuard struct {
	store  *AuthStore
	effect navEffect
}

var _ Guard = (*ReverseGuard)(nil)

// NewReverseGuard returns a guard bouncing signed-in users off auth pages.
func NewReverseGuard(store *AuthStore, nav Navigator) *ReverseGuard {
	if store == nil {
		panic("reverse guard: auth store is required")
	}
	guard := &ReverseGuard{store: store}
	guard.effect.nav = nav
	return guard
}

// Decide implements Guard. A signed-in user with a missing or unrecognized
// role stays on the page; there is no dashboard to send them to.
func (g *ReverseGuard) Decide(state AuthState) GuardDecision {
	if !state.AuthReady || state.IsLoading {
		return GuardDecision{Outcome: GuardPlaceholder}
	}
	if state.IsAuthenticated && state.Profile != nil && state.Profile.Role.IsValid() {
		return GuardDecision{Outcome: GuardRedirect, Target: state.Profile.Role.DashboardPath()}
	}
	return GuardDecision{Outcome: GuardRender}
}

// Evaluate returns the decision for the current snapshot without side effects.
func (g *ReverseGuard) Evaluate() GuardDecision {
	return g.Decide(g.store.GetState())
}

// Attach subscribes the guard's navigation effect to the store.
func (g *ReverseGuard) Attach() func() {
	return attach(g.store, g, &g.effect)
}
