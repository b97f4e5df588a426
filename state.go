package authsync

import "sync"

// AuthState is the aggregate, process-wide auth snapshot. There is exactly
// one writer path: the Listener's apply calls and the three AuthActions.
type AuthState struct {
	Session         *Session `json:"session"`
	Profile         *Profile `json:"profile"`
	IsAuthenticated bool     `json:"is_authenticated"`
	IsLoading       bool     `json:"is_loading"`
	AuthReady       bool     `json:"auth_ready"`
	Error           string   `json:"error"`
}

func (s AuthState) clone() AuthState {
	out := s
	if s.Session != nil {
		session := *s.Session
		out.Session = &session
	}
	if s.Profile != nil {
		profile := *s.Profile
		out.Profile = &profile
	}
	return out
}

// AuthStore is the single state container guards and controllers consume.
// Construct one per application process and pass it by reference; it is not
// an ambient global.
type AuthStore struct {
	mu     sync.RWMutex
	state  AuthState
	subs   map[int]func(AuthState)
	nextID int
	logger Logger
}

// AuthStoreOption customizes store construction.
type AuthStoreOption func(*AuthStore)

// WithStoreLogger overrides the default logger.
func WithStoreLogger(logger Logger) AuthStoreOption {
	return func(s *AuthStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAuthStore returns a store in the initial state: signed out, not loading,
// auth not yet ready.
func NewAuthStore(opts ...AuthStoreOption) *AuthStore {
	store := &AuthStore{
		subs:   map[int]func(AuthState){},
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// GetState returns a snapshot of the current state. Session and Profile are
// copies; mutating them does not affect the store.
func (s *AuthStore) GetState() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers a listener invoked with a snapshot after every state
// change. The returned function removes the subscription.
func (s *AuthStore) Subscribe(fn func(AuthState)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// ClearError drops the last action error without touching anything else.
func (s *AuthStore) ClearError() {
	s.apply(func(state *AuthState) {
		state.Error = ""
	})
}

// apply runs a mutation under the write lock, then notifies subscribers with
// the resulting snapshot outside of it.
func (s *AuthStore) apply(mutate func(*AuthState)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state.clone()
	subs := make([]func(AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// applySignedIn is the listener's terminal write for a sign-in event. The
// session, profile and AuthReady flag land in one atomic assignment so a
// subscriber can never observe a fresh session next to a stale profile.
func (s *AuthStore) applySignedIn(session *Session, profile *Profile) {
	s.apply(func(state *AuthState) {
		state.Session = session
		state.Profile = profile
		state.IsAuthenticated = session != nil
		state.AuthReady = true
	})
}

// applySignedOut is the listener's terminal write for a sign-out event.
// Setting AuthReady here is idempotent after the first resolution.
func (s *AuthStore) applySignedOut() {
	s.apply(func(state *AuthState) {
		state.Session = nil
		state.Profile = nil
		state.IsAuthenticated = false
		state.AuthReady = true
	})
}

func (s *AuthStore) beginAction() {
	s.apply(func(state *AuthState) {
		state.IsLoading = true
		state.Error = ""
	})
}

func (s *AuthStore) endAction(errMsg string) {
	s.apply(func(state *AuthState) {
		state.IsLoading = false
		state.Error = errMsg
	})
}
