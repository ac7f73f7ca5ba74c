package models

import (
	"time"
)

// Action kinds recorded in the local history trail.
const (
	ActionLogin      = "login"
	ActionLogout     = "logout"
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionSoftDelete = "soft-delete"
	ActionRestore    = "restore"
	ActionRoleChange = "role-change"
	ActionPermission = "permission-change"
)

// SystemHistory is a local audit record of a panel-initiated action.
// The remote API keeps its own authoritative history; this trail only
// covers what went through this panel.
type SystemHistory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EntityName  string    `json:"entity_name" gorm:"type:varchar(100);not null;index"` // User, Role, Permission
	EntityID    string    `json:"entity_id" gorm:"type:varchar(100);index"`
	Action      string    `json:"action" gorm:"type:varchar(50);not null"`
	ChangedBy   string    `json:"changed_by" gorm:"type:varchar(100);index"`
	OldValues   string    `json:"old_values" gorm:"type:text"` // JSON blob
	NewValues   string    `json:"new_values" gorm:"type:text"` // JSON blob
	Description string    `json:"description" gorm:"type:varchar(500)"`
	IPAddress   string    `json:"ip_address" gorm:"type:varchar(45)"`
	TraceID     string    `json:"trace_id" gorm:"type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
