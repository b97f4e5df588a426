package authsync

import "time"

// Collection names in the document store.
const (
	CollectionUsers       = "users"
	CollectionFreelancers = "freelancers"
	CollectionClients     = "clients"
	CollectionProjects    = "projects"
)

// Session is the ephemeral, provider-owned part of the auth state. It is
// created from a sign-in event and destroyed on sign-out, never persisted.
type Session struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// SessionFromCredential builds the session snapshot stored in AuthState.
// A credential with no display name falls back to "User".
func SessionFromCredential(cred Credential) *Session {
	if cred == nil {
		return nil
	}
	name := cred.DisplayName()
	if name == "" {
		name = "User"
	}
	return &Session{
		ID:          cred.ID(),
		DisplayName: name,
		Email:       cred.Email(),
	}
}

// Profile is the persisted, role-bearing record keyed by the identity's uid.
// CreatedAt is always a plain ISO-8601 string; store-native timestamp types
// are normalized before a Profile ever enters the state store.
type Profile struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Doc renders the profile as a document-store record.
func (p *Profile) Doc() map[string]any {
	return map[string]any{
		"uid":       p.UID,
		"email":     p.Email,
		"name":      p.Name,
		"role":      string(p.Role),
		"createdAt": p.CreatedAt,
	}
}

// normalizeTimestamp converts store-native timestamp values to an ISO-8601
// string. Unrecognized types resolve to the empty string rather than leaking
// into the state store.
func normalizeTimestamp(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
