package emsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ems-web/internal/models"
)

type replaceRolePermissionsRequest struct {
	RoleID                string `json:"roleId"`
	SelectedPermissionIDs []int  `json:"selectedPermissionIds"`
}

// RolePermissions fetches a role's current grants alongside the full
// permission catalog in one call.
func (c *Client) RolePermissions(ctx context.Context, token, roleID string) (*models.RolePermissions, error) {
	var env Envelope[models.RolePermissions]
	path := "Permission/" + url.PathEscape(roleID) + "/permissions"
	if err := c.call(ctx, http.MethodGet, path, nil, nil, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ReplaceRolePermissions swaps the role's whole permission set for the
// given selection.
func (c *Client) ReplaceRolePermissions(ctx context.Context, token, roleID string, permissionIDs []int) error {
	req := replaceRolePermissionsRequest{RoleID: roleID, SelectedPermissionIDs: permissionIDs}
	path := "Permission/" + url.PathEscape(roleID) + "/permissions"
	return c.call(ctx, http.MethodPut, path, nil, req, token, nil)
}

func (c *Client) AddRolePermission(ctx context.Context, token, roleID string, permissionID int) error {
	path := fmt.Sprintf("Permission/%s/AddPermissionToRole/%d", url.PathEscape(roleID), permissionID)
	return c.call(ctx, http.MethodPost, path, nil, nil, token, nil)
}

func (c *Client) RemoveRolePermission(ctx context.Context, token, roleID string, permissionID int) error {
	path := fmt.Sprintf("Permission/%s/permissions/%d", url.PathEscape(roleID), permissionID)
	return c.call(ctx, http.MethodDelete, path, nil, nil, token, nil)
}
