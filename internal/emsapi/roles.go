package emsapi

import (
	"context"
	"net/http"
	"net/url"

	"ems-web/internal/models"
)

// AddRoleRequest is the payload for Role/Add.
type AddRoleRequest struct {
	RoleName string `json:"roleName" form:"roleName" binding:"required"`
}

// EditRoleRequest is the payload for PUT Role/Update.
type EditRoleRequest struct {
	RoleID      string `json:"roleId" form:"roleId" binding:"required"`
	NewRoleName string `json:"newRoleName" form:"newRoleName" binding:"required"`
}

// ManageUserRolesRequest replaces a user's role set in one call.
type ManageUserRolesRequest struct {
	UserID        string   `json:"userId" form:"userId" binding:"required"`
	SelectedRoles []string `json:"selectedRoles" form:"selectedRoles"`
}

func (c *Client) ListRoles(ctx context.Context, token string) ([]models.Role, error) {
	var env Envelope[[]models.Role]
	if err := c.call(ctx, http.MethodGet, "Role/All", nil, nil, token, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) GetRole(ctx context.Context, token, id string) (*models.Role, error) {
	var env Envelope[models.Role]
	if err := c.call(ctx, http.MethodGet, "Role/Get/"+url.PathEscape(id), nil, nil, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) AddRole(ctx context.Context, token string, req AddRoleRequest) (*models.Role, error) {
	var env Envelope[models.Role]
	if err := c.call(ctx, http.MethodPost, "Role/Add", nil, req, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) UpdateRole(ctx context.Context, token string, req EditRoleRequest) (string, error) {
	var env Envelope[struct{}]
	if err := c.call(ctx, http.MethodPut, "Role/Update", nil, req, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) DeleteRole(ctx context.Context, token, id string) (string, error) {
	var env Envelope[struct{}]
	if err := c.call(ctx, http.MethodDelete, "Role/"+url.PathEscape(id), nil, nil, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// UserRoleNames lists the role names currently assigned to a user.
func (c *Client) UserRoleNames(ctx context.Context, token, userID string) ([]string, error) {
	var env Envelope[[]string]
	path := "Role/" + url.PathEscape(userID) + "/roles"
	if err := c.call(ctx, http.MethodGet, path, nil, nil, token, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) ManageUserRoles(ctx context.Context, token string, req ManageUserRolesRequest) (string, error) {
	var env Envelope[struct{}]
	if err := c.call(ctx, http.MethodPost, "Role/ManageRoles", nil, req, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// ManagedUserRoles fetches the manage-roles payload for one user.
func (c *Client) ManagedUserRoles(ctx context.Context, token, userID string) (*models.UserRoles, error) {
	var env Envelope[models.UserRoles]
	path := "Role/ManageRoles/" + url.PathEscape(userID)
	if err := c.call(ctx, http.MethodGet, path, nil, nil, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
