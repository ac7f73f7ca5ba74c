package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"ems-web/internal/emsapi"
	"ems-web/internal/models"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	api     *emsapi.Client
	history *services.HistoryService
}

func NewUserHandler(api *emsapi.Client, history *services.HistoryService) *UserHandler {
	return &UserHandler{api: api, history: history}
}

// userIDRequest carries the user id for the form-posted toggle actions.
type userIDRequest struct {
	UserID string `json:"userId" form:"userId"`
}

// Index lists users. Search, filters, sorting and paging are forwarded to
// the remote API as query parameters.
func (h *UserHandler) Index(c *gin.Context) {
	query := parseUserQuery(c)

	page, err := h.api.ListUsers(c.Request.Context(), bearerToken(c), query)
	if err != nil {
		remoteFailure(c, err, "Failed to load users")
		return
	}

	c.JSON(200, gin.H{
		"users":      page,
		"searchTerm": query.SearchTerm,
		"gender":     query.Gender,
	})
}

// Details shows one user.
func (h *UserHandler) Details(c *gin.Context) {
	id := c.Param("id")

	user, err := h.api.GetUser(c.Request.Context(), bearerToken(c), id)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to load user details")
		return
	}

	age, _ := user.Age()
	c.JSON(200, gin.H{
		"user":     user,
		"fullName": user.FullName(),
		"age":      age,
	})
}

// EditForm loads the current values for the edit screen.
func (h *UserHandler) EditForm(c *gin.Context) {
	id := c.Param("id")

	user, err := h.api.GetUser(c.Request.Context(), bearerToken(c), id)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to load user")
		return
	}

	c.JSON(200, emsapi.UpdateUserRequest{
		UserID:      user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Address:     user.Address,
		Gender:      user.Gender,
		DateOfBirth: user.DateOfBirth,
	})
}

// Edit submits updated profile fields to the remote API.
func (h *UserHandler) Edit(c *gin.Context) {
	id := c.Param("id")

	var req emsapi.UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.UserID != id {
		c.JSON(400, gin.H{"error": "User id mismatch"})
		return
	}

	message, err := h.api.UpdateUser(c.Request.Context(), bearerToken(c), id, req)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to update user")
		return
	}

	changed, _ := json.Marshal(req)
	recordHistory(h.history, c, "User", id, models.ActionUpdate, string(changed), "profile update")

	if message == "" {
		message = "User updated successfully"
	}
	c.JSON(200, gin.H{"message": message})
}

// Create registers a new user through the remote API. A remote 409 means
// the username or email is already taken.
func (h *UserHandler) Create(c *gin.Context) {
	var req emsapi.RegisterUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	message, err := h.api.CreateUser(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		if errors.Is(err, emsapi.ErrConflict) {
			c.JSON(409, gin.H{"error": "User already exists"})
			return
		}
		remoteFailure(c, err, "Failed to create user")
		return
	}

	recordHistory(h.history, c, "User", req.UserName, models.ActionCreate, "", "user created")

	if message == "" {
		message = "User created successfully"
	}
	c.JSON(201, gin.H{"message": message})
}

// SoftDelete marks a user inactive. The record stays; repeating the call
// leaves it inactive.
func (h *UserHandler) SoftDelete(c *gin.Context) {
	h.toggleActive(c, models.ActionSoftDelete)
}

// Restore reactivates a soft-deleted user.
func (h *UserHandler) Restore(c *gin.Context) {
	h.toggleActive(c, models.ActionRestore)
}

func (h *UserHandler) toggleActive(c *gin.Context, action string) {
	var req userIDRequest
	_ = c.ShouldBind(&req)
	if strings.TrimSpace(req.UserID) == "" {
		c.JSON(400, gin.H{"error": "User ID is required"})
		return
	}

	var (
		message string
		err     error
	)
	if action == models.ActionSoftDelete {
		message, err = h.api.SoftDeleteUser(c.Request.Context(), bearerToken(c), req.UserID)
	} else {
		message, err = h.api.RestoreUser(c.Request.Context(), bearerToken(c), req.UserID)
	}
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to change user state")
		return
	}

	recordHistory(h.history, c, "User", req.UserID, action, "", "")

	if message == "" {
		message = "User state updated"
	}
	c.JSON(200, gin.H{"message": message})
}

// Delete removes the user record through the remote API.
func (h *UserHandler) Delete(c *gin.Context) {
	var req userIDRequest
	_ = c.ShouldBind(&req)
	if strings.TrimSpace(req.UserID) == "" {
		c.JSON(400, gin.H{"error": "User ID is required"})
		return
	}

	message, err := h.api.DeleteUser(c.Request.Context(), bearerToken(c), req.UserID)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to delete user")
		return
	}

	recordHistory(h.history, c, "User", req.UserID, models.ActionDelete, "", "")

	if message == "" {
		message = "User deleted successfully"
	}
	c.JSON(200, gin.H{"message": message})
}

// ManageRoles loads the manage-roles screen payload in one remote call.
func (h *UserHandler) ManageRoles(c *gin.Context) {
	id := c.Param("id")

	payload, err := h.api.ManagedUserRoles(c.Request.Context(), bearerToken(c), id)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to load user roles")
		return
	}

	if payload.UserID == "" {
		payload.UserID = id
	}
	if payload.SelectedRoles == nil {
		payload.SelectedRoles = payload.UserRoles
	}
	c.JSON(200, payload)
}

// UpdateRoles replaces the user's role set in one remote call.
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	id := c.Param("id")

	var req emsapi.ManageUserRolesRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if req.UserID != id {
		c.JSON(400, gin.H{"error": "User id mismatch"})
		return
	}

	message, err := h.api.ManageUserRoles(c.Request.Context(), bearerToken(c), req)
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to update user roles")
		return
	}

	selected, _ := json.Marshal(req.SelectedRoles)
	recordHistory(h.history, c, "User", id, models.ActionRoleChange, string(selected), "role set replaced")

	if message == "" {
		message = "User roles updated successfully"
	}
	c.JSON(200, gin.H{"message": message})
}
