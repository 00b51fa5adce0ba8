package models

// ProjectRole is a user's standing in a project. Roles form an ordered lattice:
// none < viewer < editor < owner. Only viewer and editor are ever stored; owner is
// derived from Project.OwnerID.
type ProjectRole string

const (
	RoleNone   ProjectRole = ""
	RoleViewer ProjectRole = "viewer"
	RoleEditor ProjectRole = "editor"
	RoleOwner  ProjectRole = "owner"
)

// Rank returns the role's position in the lattice. Unknown roles rank as none.
func (r ProjectRole) Rank() int {
	switch r {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleOwner:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether r grants everything min grants.
func (r ProjectRole) AtLeast(min ProjectRole) bool {
	return r.Rank() >= min.Rank()
}

// IsAssignable reports whether the role may be stored on a membership or offered
// in an invitation.
func (r ProjectRole) IsAssignable() bool {
	return r == RoleViewer || r == RoleEditor
}
