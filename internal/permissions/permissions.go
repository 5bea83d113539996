// Package permissions holds the role → permission table and the role guard.
package permissions

import (
	"github.com/dimitrije/taskhive-api/internal/apperr"
)

type Permission string

const (
	CreateWorkspace         Permission = "CREATE_WORKSPACE"
	DeleteWorkspace         Permission = "DELETE_WORKSPACE"
	EditWorkspace           Permission = "EDIT_WORKSPACE"
	ManageWorkspaceSettings Permission = "MANAGE_WORKSPACE_SETTINGS"

	AddMember        Permission = "ADD_MEMBER"
	ChangeMemberRole Permission = "CHANGE_MEMBER_ROLE"
	RemoveMember     Permission = "REMOVE_MEMBER"

	CreateProject Permission = "CREATE_PROJECT"
	EditProject   Permission = "EDIT_PROJECT"
	DeleteProject Permission = "DELETE_PROJECT"

	CreateTask Permission = "CREATE_TASK"
	EditTask   Permission = "EDIT_TASK"
	DeleteTask Permission = "DELETE_TASK"

	ViewOnly Permission = "VIEW_ONLY"
)

const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// RoleNames lists the seeded roles in insertion order.
var RoleNames = []string{RoleOwner, RoleAdmin, RoleMember}

// Table maps a role name to its permission set. It is built once at startup
// and only read afterwards.
type Table struct {
	roles map[string]map[Permission]struct{}
	lists map[string][]Permission
}

func NewTable(entries map[string][]Permission) *Table {
	t := &Table{
		roles: make(map[string]map[Permission]struct{}, len(entries)),
		lists: make(map[string][]Permission, len(entries)),
	}
	for role, perms := range entries {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		t.roles[role] = set
		t.lists[role] = append([]Permission(nil), perms...)
	}
	return t
}

func DefaultTable() *Table {
	return NewTable(map[string][]Permission{
		RoleOwner: {
			CreateWorkspace, DeleteWorkspace, EditWorkspace, ManageWorkspaceSettings,
			AddMember, ChangeMemberRole, RemoveMember,
			CreateProject, EditProject, DeleteProject,
			CreateTask, EditTask, DeleteTask,
			ViewOnly,
		},
		RoleAdmin: {
			AddMember,
			CreateProject, EditProject, DeleteProject,
			CreateTask, EditTask, DeleteTask,
			ManageWorkspaceSettings,
			ViewOnly,
		},
		RoleMember: {
			ViewOnly, CreateTask, EditTask,
		},
	})
}

// Permissions returns a copy of the role's permission list, or nil for an
// unknown role.
func (t *Table) Permissions(role string) []Permission {
	perms, ok := t.lists[role]
	if !ok {
		return nil
	}
	return append([]Permission(nil), perms...)
}

// Roles returns the roles known to the table in seeding order, followed by
// any extra roles the table was built with.
func (t *Table) Roles() []string {
	out := make([]string, 0, len(t.lists))
	seen := make(map[string]bool, len(t.lists))
	for _, name := range RoleNames {
		if _, ok := t.lists[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	for name := range t.lists {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

func (t *Table) Has(role string, p Permission) bool {
	set, ok := t.roles[role]
	if !ok {
		return false
	}
	_, ok = set[p]
	return ok
}

// Guard fails with Unauthorized unless the role is known and holds every
// required permission.
func (t *Table) Guard(role string, required ...Permission) error {
	if _, ok := t.roles[role]; !ok {
		return apperr.Unauthorized("You do not have the necessary permissions to perform this action")
	}
	for _, p := range required {
		if !t.Has(role, p) {
			return apperr.Unauthorized("You do not have the necessary permissions to perform this action")
		}
	}
	return nil
}

// Strings converts a permission list to its stored form.
func Strings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
