package domain

import "fmt"

// Role classifies a user's permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Roles returns every role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// ParseRole converts the text form of a role. Anything other than
// admin, editor or viewer is rejected.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// Describe returns a human readable summary of what the role may do.
func (r Role) Describe() string {
	switch r {
	case RoleAdmin:
		return "Administrator with full access"
	case RoleEditor:
		return "Editor with content management access"
	case RoleViewer:
		return "Viewer with read-only access"
	default:
		return "Unknown role"
	}
}

func (r Role) String() string { return string(r) }
