package models

// Role mirrors the remote API's role shape.
type Role struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	NormalizedName string `json:"normalizedName,omitempty"`
}

// UserRoles is the manage-user-roles payload: a user's current role names
// next to the full role catalog, plus the replacement selection on submit.
type UserRoles struct {
	UserID        string   `json:"userId"`
	UserFullName  string   `json:"userFullName,omitempty"`
	UserEmail     string   `json:"userEmail,omitempty"`
	UserRoles     []string `json:"userRoles"`
	SelectedRoles []string `json:"selectedRoles"`
	AllRoles      []Role   `json:"allRoles"`
}
