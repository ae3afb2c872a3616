// Package rbac answers whether a board role may perform an action.
package rbac

import "github.com/thenoetrevino/pasoboard/internal/models"

type Action string

const (
	ActionRead          Action = "read"
	ActionReorder       Action = "reorder"        // move cards and columns
	ActionEditStructure Action = "edit_structure" // create and delete cards and columns
	ActionManageMembers Action = "manage_members"
)

func Can(role models.Role, action Action) bool {
	switch role {
	case models.RoleOwner, models.RoleAdmin:
		return true
	case models.RoleMember:
		return action == ActionRead || action == ActionReorder || action == ActionEditStructure
	case models.RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// CanReorder is the drag gate: may this role change positions on the board
func CanReorder(role models.Role) bool {
	return Can(role, ActionReorder)
}
