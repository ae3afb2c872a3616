package rbac

import (
	"testing"

	"github.com/thenoetrevino/pasoboard/internal/models"
)

func TestCan(t *testing.T) {
	cases := []struct {
		name   string
		role   models.Role
		action Action
		allow  bool
	}{
		{name: "viewer read", role: models.RoleViewer, action: ActionRead, allow: true},
		{name: "viewer reorder", role: models.RoleViewer, action: ActionReorder, allow: false},
		{name: "viewer edit", role: models.RoleViewer, action: ActionEditStructure, allow: false},
		{name: "member reorder", role: models.RoleMember, action: ActionReorder, allow: true},
		{name: "member manage members", role: models.RoleMember, action: ActionManageMembers, allow: false},
		{name: "admin manage members", role: models.RoleAdmin, action: ActionManageMembers, allow: true},
		{name: "owner reorder", role: models.RoleOwner, action: ActionReorder, allow: true},
		{name: "unknown role read", role: models.Role("guest"), action: ActionRead, allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.role, tc.action); got != tc.allow {
				t.Fatalf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.allow)
			}
		})
	}
}

func TestCanReorder(t *testing.T) {
	if CanReorder(models.RoleViewer) {
		t.Fatal("viewer must not reorder")
	}
	if !CanReorder(models.RoleMember) {
		t.Fatal("member must be able to reorder")
	}
}
