package authsync

import (
	"context"
	"sync"
	"sync/atomic"
)

// Listener owns the provider's event channel. It is the only consumer, and it
// processes one event at a time: cookie write, profile resolution, then a
// single state store write. A burst of queued events collapses to the newest
// one before processing, so the store always converges on the latest
// credential state.
type Listener struct {
	provider IdentityProvider
	bridge   *TokenBridge
	profiles *ProfileSynchronizer
	store    *AuthStore
	logger   Logger

	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// ListenerOption customizes listener construction.
type ListenerOption func(*Listener)

// WithListenerLogger overrides the default logger.
func WithListenerLogger(logger Logger) ListenerOption {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewListener wires the provider's events to the bridge, synchronizer and
// store. All four collaborators are required.
func NewListener(provider IdentityProvider, bridge *TokenBridge, profiles *ProfileSynchronizer, store *AuthStore, opts ...ListenerOption) *Listener {
	if provider == nil {
		panic("listener: provider is required")
	}
	if bridge == nil {
		panic("listener: token bridge is required")
	}
	if profiles == nil {
		panic("listener: profile synchronizer is required")
	}
	if store == nil {
		panic("listener: auth store is required")
	}

	listener := &Listener{
		provider: provider,
		bridge:   bridge,
		profiles: profiles,
		store:    store,
		logger:   defLogger{},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(listener)
		}
	}
	return listener
}

// Start launches the consumer goroutine. Subsequent calls are no-ops.
func (l *Listener) Start(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	go l.run(ctx)
}

// Close stops the consumer and waits for the in-flight event, if any, to
// finish.
func (l *Listener) Close() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	if l.started.Load() {
		<-l.done
	}
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)

	events := l.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			evt, open := latest(events, evt)
			l.handle(ctx, evt)
			if !open {
				return
			}
		}
	}
}

// latest drains already-queued events and keeps only the newest one.
func latest(events <-chan CredentialEvent, evt CredentialEvent) (CredentialEvent, bool) {
	for {
		select {
		case newer, ok := <-events:
			if !ok {
				return evt, false
			}
			evt = newer
		default:
			return evt, true
		}
	}
}

// handle runs a single event to completion. Whatever happens along the way,
// it ends in exactly one store write, so AuthReady is set after the first
// event and stays set.
func (l *Listener) handle(ctx context.Context, evt CredentialEvent) {
	if !evt.SignedIn() {
		l.logger.Debug("credential event: signed out")
		l.bridge.Clear()
		l.store.applySignedOut()
		return
	}

	cred := evt.Credential
	l.logger.Debug("credential event: signed in", "uid", cred.ID())

	l.bridge.Refresh(ctx, cred)
	profile := l.profiles.Resolve(ctx, cred)
	l.store.applySignedIn(SessionFromCredential(cred), profile)
}
