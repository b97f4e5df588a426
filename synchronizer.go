package authsync

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ProfileSynchronizer resolves a credential to its stored profile, creating a
// default one on first sign-in. Resolution never fails loudly: any lookup,
// decode or provisioning problem is logged and the profile resolves to nil,
// which downstream role checks treat as unauthorized.
type ProfileSynchronizer struct {
	docs   DocumentStore
	sink   ActivitySink
	logger Logger
	now    func() time.Time
	role   Role
}

// SynchronizerOption customizes synchronizer construction.
type SynchronizerOption func(*ProfileSynchronizer)

// WithSynchronizerLogger overrides the default logger.
func WithSynchronizerLogger(logger Logger) SynchronizerOption {
	return func(s *ProfileSynchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSynchronizerActivitySink records profile provisioning events.
func WithSynchronizerActivitySink(sink ActivitySink) SynchronizerOption {
	return func(s *ProfileSynchronizer) {
		s.sink = normalizeActivitySink(sink)
	}
}

// WithSynchronizerClock overrides the timestamp source.
func WithSynchronizerClock(now func() time.Time) SynchronizerOption {
	return func(s *ProfileSynchronizer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSynchronizerDefaultRole overrides the role assigned to provisioned
// profiles.
func WithSynchronizerDefaultRole(role Role) SynchronizerOption {
	return func(s *ProfileSynchronizer) {
		if role.IsValid() {
			s.role = role
		}
	}
}

// NewProfileSynchronizer returns a synchronizer backed by the given store.
func NewProfileSynchronizer(docs DocumentStore, opts ...SynchronizerOption) *ProfileSynchronizer {
	if docs == nil {
		panic("profile synchronizer: document store is required")
	}

	sync := &ProfileSynchronizer{
		docs:   docs,
		sink:   noopActivitySink{},
		logger: defLogger{},
		now:    time.Now,
		role:   DefaultRole,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sync)
		}
	}
	return sync
}

// Resolve fetches the credential's profile, provisioning a default one when
// the document does not exist yet.
func (s *ProfileSynchronizer) Resolve(ctx context.Context, cred Credential) *Profile {
	if cred == nil || cred.ID() == "" {
		return nil
	}

	doc, err := s.docs.Get(ctx, CollectionUsers, cred.ID())
	if err != nil {
		if IsDocumentNotFound(err) {
			return s.provision(ctx, cred)
		}
		s.logger.Error("profile lookup failed", "uid", cred.ID(), "error", err)
		return nil
	}

	profile, err := DecodeProfile(doc)
	if err != nil {
		s.logger.Warn("discarding malformed profile document", "uid", cred.ID(), "error", err)
		return nil
	}
	return profile
}

// provision writes the first-sign-in default profile.
func (s *ProfileSynchronizer) provision(ctx context.Context, cred Credential) *Profile {
	profile := &Profile{
		UID:       cred.ID(),
		Email:     cred.Email(),
		Name:      displayNameOrDefault(cred),
		Role:      s.role,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	if err := s.docs.Set(ctx, CollectionUsers, profile.UID, profile.Doc()); err != nil {
		s.logger.Error("could not provision default profile", "uid", profile.UID, "error", err)
		return nil
	}

	s.logger.Info("provisioned default profile", "uid", profile.UID, "role", profile.Role)

	if err := s.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventProfileCreated,
		Actor:      ActorRef{ID: profile.UID, Type: "user"},
		UserID:     profile.UID,
		ToRole:     profile.Role,
		OccurredAt: s.now(),
	}); err != nil {
		s.logger.Warn("activity sink rejected profile.created event", "error", err)
	}

	return profile
}

type profileRecord struct {
	UID   string
	Email string
	Name  string
	Role  string
}

func (r profileRecord) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UID, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Role, validation.Required),
	)
}

// DecodeProfile validates a raw profile document against the expected schema.
// The role value itself is not checked against the enumeration here; an
// unrecognized role decodes fine and simply fails every role check.
func DecodeProfile(doc map[string]any) (*Profile, error) {
	if doc == nil {
		return nil, ErrProfileInvalid
	}

	rec := profileRecord{}
	fields := []struct {
		key string
		dst *string
	}{
		{"uid", &rec.UID},
		{"email", &rec.Email},
		{"name", &rec.Name},
		{"role", &rec.Role},
	}
	for _, f := range fields {
		raw, ok := doc[f.key]
		if !ok {
			continue
		}
		val, ok := raw.(string)
		if !ok {
			return nil, ErrProfileInvalid.WithMetadata(map[string]any{
				"field":  f.key,
				"reason": fmt.Sprintf("expected string, got %T", raw),
			})
		}
		*f.dst = val
	}

	if err := rec.Validate(); err != nil {
		return nil, ErrProfileInvalid.WithMetadata(map[string]any{
			"reason": err.Error(),
		})
	}

	return &Profile{
		UID:       rec.UID,
		Email:     rec.Email,
		Name:      rec.Name,
		Role:      Role(rec.Role),
		CreatedAt: normalizeTimestamp(doc["createdAt"]),
	}, nil
}

func displayNameOrDefault(cred Credential) string {
	if name := cred.DisplayName(); name != "" {
		return name
	}
	return "User"
}
