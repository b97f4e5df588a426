package authsync

import (
	"context"
	"time"
)

// AuthActions are the credential operations the forms call. Each one brackets
// the provider call with the store's loading flag and leaves the last error
// behind for the UI; the resulting session and profile land in the store
// through the Listener, never here.
type AuthActions struct {
	provider IdentityProvider
	docs     DocumentStore
	bridge   *TokenBridge
	store    *AuthStore
	sink     ActivitySink
	logger   Logger
	now      func() time.Time
}

// ActionsOption customizes action construction.
type ActionsOption func(*AuthActions)

// WithActionsLogger overrides the default logger.
func WithActionsLogger(logger Logger) ActionsOption {
	return func(a *AuthActions) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithActionsActivitySink records login/registration/logout events.
func WithActionsActivitySink(sink ActivitySink) ActionsOption {
	return func(a *AuthActions) {
		a.sink = normalizeActivitySink(sink)
	}
}

// WithActionsClock overrides the timestamp source.
func WithActionsClock(now func() time.Time) ActionsOption {
	return func(a *AuthActions) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAuthActions wires the actions to their collaborators. Provider, document
// store, bridge and state store are required.
func NewAuthActions(provider IdentityProvider, docs DocumentStore, bridge *TokenBridge, store *AuthStore, opts ...ActionsOption) *AuthActions {
	if provider == nil {
		panic("auth actions: provider is required")
	}
	if docs == nil {
		panic("auth actions: document store is required")
	}
	if bridge == nil {
		panic("auth actions: token bridge is required")
	}
	if store == nil {
		panic("auth actions: auth store is required")
	}

	actions := &AuthActions{
		provider: provider,
		docs:     docs,
		bridge:   bridge,
		store:    store,
		sink:     noopActivitySink{},
		logger:   defLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(actions)
		}
	}
	return actions
}

// Login signs the user in with email and password. The returned credential
// lets HTTP callers mint a cookie on the same response; state propagation
// still flows through the provider's event.
func (a *AuthActions) Login(ctx context.Context, email, password string) (Credential, error) {
	a.store.beginAction()

	cred, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		a.store.endAction(userMessage(err))
		a.record(ctx, ActivityEvent{
			EventType: ActivityEventLoginFailure,
			Actor:     ActorRef{ID: email, Type: "email"},
			Metadata:  map[string]any{"error": err.Error()},
		})
		return nil, err
	}

	a.store.endAction("")
	a.record(ctx, ActivityEvent{
		EventType: ActivityEventLoginSuccess,
		Actor:     ActorRef{ID: cred.ID(), Type: "user"},
		UserID:    cred.ID(),
	})
	return cred, nil
}

// Register creates an account with an explicit role, writes the initial
// profile document and the role's detail document. The profile write carries
// the requested role, unlike the synchronizer's default-role provisioning.
func (a *AuthActions) Register(ctx context.Context, name, email, password string, role Role) (Credential, error) {
	a.store.beginAction()

	if !role.IsValid() {
		err := ErrInvalidRole.WithMetadata(map[string]any{"role": string(role)})
		a.store.endAction(userMessage(err))
		return nil, err
	}

	cred, err := a.provider.SignUp(ctx, name, email, password)
	if err != nil {
		a.store.endAction(userMessage(err))
		a.record(ctx, ActivityEvent{
			EventType: ActivityEventRegisterFailure,
			Actor:     ActorRef{ID: email, Type: "email"},
			Metadata:  map[string]any{"error": err.Error()},
		})
		return nil, err
	}

	profile := &Profile{
		UID:       cred.ID(),
		Email:     cred.Email(),
		Name:      name,
		Role:      role,
		CreatedAt: a.now().UTC().Format(time.RFC3339),
	}

	// A failed profile write degrades instead of failing the registration;
	// the synchronizer provisions a default profile on the sign-in event.
	if err := a.docs.Set(ctx, CollectionUsers, profile.UID, profile.Doc()); err != nil {
		a.logger.Error("could not write registration profile", "uid", profile.UID, "error", err)
	} else {
		a.writeRoleDetail(ctx, profile)
	}

	a.store.endAction("")
	a.record(ctx, ActivityEvent{
		EventType: ActivityEventRegisterSuccess,
		Actor:     ActorRef{ID: cred.ID(), Type: "user"},
		UserID:    cred.ID(),
		ToRole:    role,
	})
	return cred, nil
}

// Logout signs the user out. The cookie is cleared unconditionally, even when
// the provider refuses; the store transitions to signed-out through the
// provider's event.
func (a *AuthActions) Logout(ctx context.Context) error {
	actor := ActorRef{Type: "user"}
	if state := a.store.GetState(); state.Session != nil {
		actor.ID = state.Session.ID
	}

	a.store.beginAction()

	err := a.provider.SignOut(ctx)
	a.bridge.Clear()

	if err != nil {
		a.store.endAction(userMessage(err))
		return err
	}

	a.store.endAction("")
	a.record(ctx, ActivityEvent{
		EventType: ActivityEventLogout,
		Actor:     actor,
		UserID:    actor.ID,
	})
	return nil
}

// writeRoleDetail seeds the provider/buyer detail document that the role's
// onboarding flow fills in later. Admins have no detail record.
func (a *AuthActions) writeRoleDetail(ctx context.Context, profile *Profile) {
	doc := map[string]any{
		"uid":       profile.UID,
		"email":     profile.Email,
		"name":      profile.Name,
		"createdAt": profile.CreatedAt,
	}

	var collection string
	switch profile.Role {
	case RoleProvider:
		collection = CollectionFreelancers
		doc["rating"] = 0
		doc["totalProjects"] = 0
		doc["completedProjects"] = 0
	case RoleBuyer:
		collection = CollectionClients
	default:
		return
	}

	if err := a.docs.Set(ctx, collection, profile.UID, doc); err != nil {
		a.logger.Warn("could not write role detail document", "collection", collection, "uid", profile.UID, "error", err)
	}
}

func (a *AuthActions) record(ctx context.Context, event ActivityEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = a.now()
	}
	if err := a.sink.Record(ctx, event); err != nil {
		a.logger.Warn("activity sink rejected event", "event", event.EventType, "error", err)
	}
}
