package authsync

import "context"

var sessionCtxKey = &contextKey{"session"}
var profileCtxKey = &contextKey{"profile"}

type contextKey struct {
	name string
}

// WithSessionContext sets the Session in the given context
func WithSessionContext(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, session)
}

// SessionFromContext finds the session from the context.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	raw, ok := ctx.Value(sessionCtxKey).(*Session)
	return raw, ok
}

// WithProfileContext sets the Profile in the given context
func WithProfileContext(ctx context.Context, profile *Profile) context.Context {
	return context.WithValue(ctx, profileCtxKey, profile)
}

// ProfileFromContext finds the profile from the context.
func ProfileFromContext(ctx context.Context) (*Profile, bool) {
	raw, ok := ctx.Value(profileCtxKey).(*Profile)
	return raw, ok
}

// CanAccess is a convenience check against the profile stored in the context.
func CanAccess(ctx context.Context, allowed ...Role) bool {
	profile, ok := ProfileFromContext(ctx)
	if !ok {
		return false
	}
	return HasRole(profile, allowed...)
}
