package models

// Role is a user's role on a board
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// ParseRole returns the role for s, or false when s names no known role
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return Role(s), true
	default:
		return "", false
	}
}
