package authsync

import "strings"

// Role is the user's marketplace role
type Role string

const (
	// RoleAdmin administers users and projects
	RoleAdmin Role = "admin"
	// RoleProvider offers services (rendered as "freelancer" in routes)
	RoleProvider Role = "provider"
	// RoleBuyer purchases services (rendered as "client" in routes)
	RoleBuyer Role = "buyer"
)

// DefaultRole is assigned when a profile is auto-provisioned on first sign-in.
const DefaultRole = RoleBuyer

// Navigation targets shared by the guards and the edge filter.
const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"

	AdminDashboardPath      = "/pages/dashboard/admin"
	FreelancerDashboardPath = "/pages/dashboard/freelancer"
	ClientDashboardPath     = "/pages/dashboard/client"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleBuyer:
		return true
	default:
		return false
	}
}

// DashboardPath returns the role's dashboard route. An invalid role resolves
// to the unauthorized page, never to a role-gated dashboard.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return AdminDashboardPath
	case RoleProvider:
		return FreelancerDashboardPath
	case RoleBuyer:
		return ClientDashboardPath
	default:
		return UnauthorizedPath
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{RoleAdmin, RoleProvider, RoleBuyer}
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(roleStr)))
	if !role.IsValid() {
		return Role(""), false
	}
	return role, true
}

// HasRole is the single role predicate used by every guard and by the
// registration action. A nil profile or an unrecognized role satisfies zero
// role checks.
func HasRole(profile *Profile, allowed ...Role) bool {
	if profile == nil || !profile.Role.IsValid() {
		return false
	}
	for _, role := range allowed {
		if profile.Role == role {
			return true
		}
	}
	return false
}
