// Package local is the email/password identity provider backed by a bun
// database. It is the event source of the whole system: sign-in, sign-up and
// sign-out all publish credential events that the listener turns into state.
package local

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"golang.org/x/crypto/bcrypt"

	"github.com/workbridge/go-authsync"
)

const eventBuffer = 8

// Provider implements authsync.IdentityProvider against local identities.
type Provider struct {
	identities Identities
	tokens     authsync.TokenService
	logger     authsync.Logger

	events    chan authsync.CredentialEvent
	closeOnce sync.Once
}

var _ authsync.IdentityProvider = (*Provider)(nil)

// Option customizes provider construction.
type Option func(*Provider)

// WithLogger overrides the default logger.
func WithLogger(logger authsync.Logger) Option {
	return func(p *Provider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a provider over the given identity repository and token
// service.
func New(identities Identities, tokens authsync.TokenService, opts ...Option) *Provider {
	if identities == nil {
		panic("local provider: identities repository is required")
	}
	if tokens == nil {
		panic("local provider: token service is required")
	}

	provider := &Provider{
		identities: identities,
		tokens:     tokens,
		logger:     authsync.NewDefaultLogger(),
		events:     make(chan authsync.CredentialEvent, eventBuffer),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(provider)
		}
	}
	return provider
}

// SignIn verifies the email/password pair and publishes a signed-in event.
// Unknown accounts and wrong passwords return the same error.
func (p *Provider) SignIn(ctx context.Context, email, password string) (authsync.Credential, error) {
	email = normalizeEmail(email)

	identity, err := p.identities.GetByIdentifier(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, authsync.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, authsync.ErrInvalidCredentials
		}
		return nil, err
	}

	cred := credentialFor(identity)
	p.publish(authsync.CredentialEvent{Credential: cred})
	return cred, nil
}

// SignUp creates an identity with a deterministic ID derived from the email
// and publishes a signed-in event for it.
func (p *Provider) SignUp(ctx context.Context, name, email, password string) (authsync.Credential, error) {
	email = normalizeEmail(email)

	if _, err := p.identities.GetByIdentifier(ctx, email); err == nil {
		return nil, authsync.ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
	}
	if id, err := hashid.NewUUID(email); err == nil {
		identity.ID = id
	}

	identity, err = p.identities.Create(ctx, identity)
	if err != nil {
		return nil, err
	}

	cred := credentialFor(identity)
	p.publish(authsync.CredentialEvent{Credential: cred})
	return cred, nil
}

// SignOut publishes a signed-out event. The provider itself keeps no session
// state to invalidate.
func (p *Provider) SignOut(ctx context.Context) error {
	p.publish(authsync.CredentialEvent{})
	return nil
}

// Token mints a bearer token for the credential.
func (p *Provider) Token(ctx context.Context, cred authsync.Credential) (string, error) {
	return p.tokens.Generate(cred)
}

// Events returns the credential event channel. The listener is its single
// consumer.
func (p *Provider) Events() <-chan authsync.CredentialEvent {
	return p.events
}

// Close closes the event channel, stopping the listener.
func (p *Provider) Close() {
	p.closeOnce.Do(func() {
		close(p.events)
	})
}

// publish never blocks: with no consumer attached, the oldest queued event
// is dropped so the channel always converges on the latest state.
func (p *Provider) publish(evt authsync.CredentialEvent) {
	select {
	case p.events <- evt:
		return
	default:
	}

	select {
	case <-p.events:
	default:
	}

	select {
	case p.events <- evt:
	default:
		p.logger.Warn("dropping credential event, channel saturated")
	}
}

type credential struct {
	id    string
	email string
	name  string
}

var _ authsync.Credential = (*credential)(nil)

func (c *credential) ID() string          { return c.id }
func (c *credential) Email() string       { return c.email }
func (c *credential) DisplayName() string { return c.name }

func credentialFor(identity *Identity) authsync.Credential {
	return &credential{
		id:    identity.ID.String(),
		email: identity.Email,
		name:  identity.DisplayName,
	}
}

func hashPassword(password string) (string, error) {
	if password == "" {
		return "", authsync.ErrInvalidCredentials
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(h), err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
