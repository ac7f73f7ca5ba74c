package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"ems-web/internal/emsapi"
	"ems-web/internal/models"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	api     *emsapi.Client
	history *services.HistoryService
}

func NewRoleHandler(api *emsapi.Client, history *services.HistoryService) *RoleHandler {
	return &RoleHandler{api: api, history: history}
}

type replacePermissionsRequest struct {
	SelectedPermissionIDs []int `json:"selectedPermissionIds" form:"selectedPermissionIds"`
}

type singlePermissionRequest struct {
	PermissionID int `json:"permissionId" form:"permissionId"`
}

// Index lists all roles.
func (h *RoleHandler) Index(c *gin.Context) {
	roles, err := h.api.ListRoles(c.Request.Context(), bearerToken(c))
	if err != nil {
		remoteFailure(c, err, "Failed to load roles")
		return
	}

	c.JSON(200, gin.H{"roles": roles})
}

// Create adds a role.
func (h *RoleHandler) Create(c *gin.Context) {
	var req emsapi.AddRoleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	role, err := h.api.AddRole(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		if errors.Is(err, emsapi.ErrConflict) {
			c.JSON(409, gin.H{"error": "Role already exists"})
			return
		}
		remoteFailure(c, err, "Failed to create role")
		return
	}

	recordHistory(h.history, c, "Role", role.ID, models.ActionCreate, req.RoleName, "role created")

	c.JSON(201, role)
}

// EditForm loads a role's current name for the edit screen.
func (h *RoleHandler) EditForm(c *gin.Context) {
	id := c.Param("id")

	role, err := h.api.GetRole(c.Request.Context(), bearerToken(c), id)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		remoteFailure(c, err, "Failed to load role")
		return
	}

	c.JSON(200, emsapi.EditRoleRequest{RoleID: role.ID, NewRoleName: role.Name})
}

// Edit renames a role.
func (h *RoleHandler) Edit(c *gin.Context) {
	id := c.Param("id")

	var req emsapi.EditRoleRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.RoleID != id {
		c.JSON(400, gin.H{"error": "Role id mismatch"})
		return
	}

	message, err := h.api.UpdateRole(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		remoteFailure(c, err, "Failed to update role")
		return
	}

	recordHistory(h.history, c, "Role", id, models.ActionUpdate, req.NewRoleName, "role renamed")

	if message == "" {
		message = "Role updated successfully"
	}
	c.JSON(200, gin.H{"message": message})
}

// Delete removes a role.
func (h *RoleHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	message, err := h.api.DeleteRole(c.Request.Context(), bearerToken(c), id)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		remoteFailure(c, err, "Failed to delete role")
		return
	}

	recordHistory(h.history, c, "Role", id, models.ActionDelete, "", "")

	if message == "" {
		message = "Role deleted successfully"
	}
	c.JSON(200, gin.H{"message": message})
}

// ManageUserRoles assembles the user-role screen from the role catalog and
// the user's current assignments, fetched in sequence. The submit side is
// the users surface; this screen only reads.
func (h *RoleHandler) ManageUserRoles(c *gin.Context) {
	userID := c.Param("userId")
	token := bearerToken(c)
	ctx := c.Request.Context()

	user, err := h.api.GetUser(ctx, token, userID)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to load user")
		return
	}

	allRoles, err := h.api.ListRoles(ctx, token)
	if err != nil {
		remoteFailure(c, err, "Failed to load roles")
		return
	}

	userRoles, err := h.api.UserRoleNames(ctx, token, userID)
	if err != nil {
		remoteFailure(c, err, "Failed to load user roles")
		return
	}

	c.JSON(200, models.UserRoles{
		UserID:        userID,
		UserFullName:  user.FullName(),
		UserEmail:     user.Email,
		UserRoles:     userRoles,
		SelectedRoles: userRoles,
		AllRoles:      allRoles,
	})
}

// Permissions loads the role's current grants and the full catalog.
func (h *RoleHandler) Permissions(c *gin.Context) {
	id := c.Param("id")

	perms, err := h.api.RolePermissions(c.Request.Context(), bearerToken(c), id)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		remoteFailure(c, err, "Failed to load permissions")
		return
	}

	c.JSON(200, gin.H{
		"roleId":                perms.RoleID,
		"roleName":              perms.RoleName,
		"currentPermissions":    permissionViews(perms.CurrentPermissions),
		"allPermissions":        permissionViews(perms.AllPermissions),
		"selectedPermissionIds": perms.SelectedPermissionIDs(),
	})
}

// permissionViews decorates the raw DTOs with the display labels the
// permission screens render.
func permissionViews(perms []models.Permission) []gin.H {
	views := make([]gin.H, 0, len(perms))
	for _, p := range perms {
		views = append(views, gin.H{
			"id":            p.ID,
			"name":          p.Name,
			"label":         p.Label(),
			"qualifiedName": p.QualifiedLabel(),
			"category":      p.Category,
			"type":          p.PermissionType,
			"isActive":      p.IsActive,
		})
	}
	return views
}

// ReplacePermissions swaps the role's whole permission set.
func (h *RoleHandler) ReplacePermissions(c *gin.Context) {
	id := c.Param("id")

	var req replacePermissionsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	err := h.api.ReplaceRolePermissions(c.Request.Context(), bearerToken(c), id, req.SelectedPermissionIDs)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Role not found"})
			return
		}
		remoteFailure(c, err, "Failed to update permissions")
		return
	}

	selected, _ := json.Marshal(req.SelectedPermissionIDs)
	recordHistory(h.history, c, "Role", id, models.ActionPermission, string(selected), "permission set replaced")

	c.JSON(200, gin.H{"message": "Role permissions updated successfully"})
}

// AddPermission grants one permission. The result is always a JSON
// success flag; a failed remote call never surfaces as an error status.
func (h *RoleHandler) AddPermission(c *gin.Context) {
	h.togglePermission(c, true)
}

// RemovePermission revokes one permission, same contract as AddPermission.
func (h *RoleHandler) RemovePermission(c *gin.Context) {
	h.togglePermission(c, false)
}

func (h *RoleHandler) togglePermission(c *gin.Context, add bool) {
	id := c.Param("id")

	var req singlePermissionRequest
	_ = c.ShouldBind(&req)
	if req.PermissionID <= 0 {
		c.JSON(200, gin.H{"success": false, "message": "Invalid permission id"})
		return
	}

	var err error
	if add {
		err = h.api.AddRolePermission(c.Request.Context(), bearerToken(c), id, req.PermissionID)
	} else {
		err = h.api.RemoveRolePermission(c.Request.Context(), bearerToken(c), id, req.PermissionID)
	}
	if err != nil {
		log.Printf("Permission toggle failed for role %s: %v", id, err)
		message := "Failed to add permission"
		if !add {
			message = "Failed to remove permission"
		}
		c.JSON(200, gin.H{"success": false, "message": message})
		return
	}

	recordHistory(h.history, c, "Role", id, models.ActionPermission,
		fmt.Sprintf(`{"permissionId":%d,"granted":%t}`, req.PermissionID, add), "")

	message := "Permission added successfully"
	if !add {
		message = "Permission removed successfully"
	}
	c.JSON(200, gin.H{"success": true, "message": message})
}
