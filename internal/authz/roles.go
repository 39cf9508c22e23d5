package authz

import "fmt"

// Role is the staff role stored in users.role.
type Role int

const (
	RoleAdmin  Role = 0
	RoleLeader Role = 1
	RoleMember Role = 2
)

// IsValid reports whether r is one of the known roles. Rows carrying any
// other value are treated as unauthenticated.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleLeader || r == RoleMember
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleLeader:
		return "leader"
	case RoleMember:
		return "member"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// LeaderRoles lists the roles offered in leader pickers.
func LeaderRoles() []Role {
	return []Role{RoleAdmin, RoleLeader}
}

// HomePath is where "/" sends an authenticated user.
func HomePath(r Role) string {
	if r == RoleAdmin {
		return "/admin/tasks"
	}
	return "/tasks"
}
