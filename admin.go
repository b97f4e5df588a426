package authsync

import (
	"context"
	"time"
)

// AdminService exposes the profile administration surface: listing every
// profile and reassigning roles. Callers are expected to gate access with a
// RoleGuard or CanAccess before reaching it.
type AdminService struct {
	docs   DocumentStore
	sink   ActivitySink
	logger Logger
	now    func() time.Time
}

// AdminOption customizes the admin service.
type AdminOption func(*AdminService)

// WithAdminLogger overrides the default logger.
func WithAdminLogger(logger Logger) AdminOption {
	return func(a *AdminService) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAdminActivitySink records role change events.
func WithAdminActivitySink(sink ActivitySink) AdminOption {
	return func(a *AdminService) {
		a.sink = normalizeActivitySink(sink)
	}
}

// WithAdminClock overrides the timestamp source.
func WithAdminClock(now func() time.Time) AdminOption {
	return func(a *AdminService) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAdminService returns an admin service backed by the given store.
func NewAdminService(docs DocumentStore, opts ...AdminOption) *AdminService {
	if docs == nil {
		panic("admin service: document store is required")
	}
	svc := &AdminService{
		docs:   docs,
		sink:   noopActivitySink{},
		logger: defLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// ListProfiles returns every decodable profile. Malformed documents are
// logged and skipped rather than failing the listing.
func (a *AdminService) ListProfiles(ctx context.Context) ([]*Profile, error) {
	docs, err := a.docs.List(ctx, CollectionUsers)
	if err != nil {
		return nil, err
	}

	profiles := make([]*Profile, 0, len(docs))
	for _, doc := range docs {
		profile, err := DecodeProfile(doc)
		if err != nil {
			a.logger.Warn("skipping malformed profile document", "error", err)
			continue
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// UpdateRole reassigns a user's role. The change takes effect for the user on
// their next profile resolution.
func (a *AdminService) UpdateRole(ctx context.Context, actor ActorRef, uid string, role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole.WithMetadata(map[string]any{"role": string(role)})
	}

	doc, err := a.docs.Get(ctx, CollectionUsers, uid)
	if err != nil {
		return err
	}

	from := Role("")
	if current, err := DecodeProfile(doc); err == nil {
		from = current.Role
	}
	if from == role {
		return nil
	}

	if err := a.docs.Update(ctx, CollectionUsers, uid, map[string]any{
		"role": string(role),
	}); err != nil {
		return err
	}

	a.logger.Info("role updated", "uid", uid, "from", from, "to", role)

	if err := a.sink.Record(ctx, ActivityEvent{
		EventType:  ActivityEventRoleChanged,
		Actor:      actor,
		UserID:     uid,
		FromRole:   from,
		ToRole:     role,
		OccurredAt: a.now(),
	}); err != nil {
		a.logger.Warn("activity sink rejected role change event", "error", err)
	}
	return nil
}
