package models

import (
	"strings"
	"time"
)

// Permission mirrors the remote API's permission shape.
type Permission struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	DisplayName    string     `json:"displayName"`
	Category       string     `json:"category"`
	PermissionType string     `json:"permissionType"`
	Description    string     `json:"description"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt"`
}

// Label returns the server-provided display name when present. Otherwise it
// falls back to the segment after the first dot of Name ("Users.Create" ->
// "Create"), or the full name when it has no dot.
func (p Permission) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if _, suffix, ok := strings.Cut(p.Name, "."); ok {
		return suffix
	}
	return p.Name
}

// QualifiedLabel is the fully qualified "Category:Type:Name" form.
func (p Permission) QualifiedLabel() string {
	return p.Category + ":" + p.PermissionType + ":" + p.Name
}

// RolePermissions is the role-permission management payload: a role's
// current grants next to the full permission catalog.
type RolePermissions struct {
	RoleID             string       `json:"roleId"`
	RoleName           string       `json:"roleName"`
	CurrentPermissions []Permission `json:"currentPermissions"`
	AllPermissions     []Permission `json:"allPermissions"`
}

// SelectedPermissionIDs lists the ids of the role's current grants.
func (r RolePermissions) SelectedPermissionIDs() []int {
	ids := make([]int, 0, len(r.CurrentPermissions))
	for _, p := range r.CurrentPermissions {
		ids = append(ids, p.ID)
	}
	return ids
}
