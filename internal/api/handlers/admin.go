package handlers

import (
	"errors"
	"strconv"

	"ems-web/internal/emsapi"
	"ems-web/internal/models"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler is the JSON API surface of the admin dashboard. It repeats
// the user operations with admin defaults (sorted by creation date,
// newest first) and adds the status check and the local history listing.
type AdminHandler struct {
	api     *emsapi.Client
	history *services.HistoryService
}

func NewAdminHandler(api *emsapi.Client, history *services.HistoryService) *AdminHandler {
	return &AdminHandler{api: api, history: history}
}

// Index is the admin landing page.
func (h *AdminHandler) Index(c *gin.Context) {
	identity := currentIdentity(c)
	c.JSON(200, gin.H{
		"dashboard": "admin",
		"userName":  identity.UserName,
		"sections":  []string{"users", "roles", "permissions", "history"},
	})
}

// GetAllUsers lists users with the dashboard's sort defaults.
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	query := parseUserQuery(c)
	if query.SortBy == "" {
		query.SortBy = "CreatedAt"
		descending := true
		query.SortDescending = &descending
	}

	page, err := h.api.ListUsers(c.Request.Context(), bearerToken(c), query)
	if err != nil {
		remoteFailure(c, err, "Failed to retrieve users")
		return
	}

	c.JSON(200, page)
}

func (h *AdminHandler) GetUserByID(c *gin.Context) {
	user, err := h.api.GetUser(c.Request.Context(), bearerToken(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to retrieve user")
		return
	}

	c.JSON(200, user)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req emsapi.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
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

	recordHistory(h.history, c, "User", req.UserName, models.ActionCreate, "", "user created via admin api")

	if message == "" {
		message = "User created successfully"
	}
	c.JSON(201, gin.H{"message": message})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req emsapi.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
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

	recordHistory(h.history, c, "User", id, models.ActionUpdate, "", "profile update via admin api")

	if message == "" {
		message = "User updated successfully"
	}
	c.JSON(200, gin.H{"message": message})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	h.userAction(c, models.ActionDelete, "Failed to delete user")
}

func (h *AdminHandler) SoftDeleteUser(c *gin.Context) {
	h.userAction(c, models.ActionSoftDelete, "Failed to soft delete user")
}

func (h *AdminHandler) RestoreUser(c *gin.Context) {
	h.userAction(c, models.ActionRestore, "Failed to restore user")
}

func (h *AdminHandler) userAction(c *gin.Context, action, generic string) {
	id := c.Param("id")

	var (
		message string
		err     error
	)
	switch action {
	case models.ActionDelete:
		message, err = h.api.DeleteUser(c.Request.Context(), bearerToken(c), id)
	case models.ActionSoftDelete:
		message, err = h.api.SoftDeleteUser(c.Request.Context(), bearerToken(c), id)
	case models.ActionRestore:
		message, err = h.api.RestoreUser(c.Request.Context(), bearerToken(c), id)
	}
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, generic)
		return
	}

	recordHistory(h.history, c, "User", id, action, "", "")

	if message == "" {
		message = "Operation completed successfully"
	}
	c.JSON(200, gin.H{"message": message})
}

// CheckUserStatus queries the remote status endpoint for one user.
func (h *AdminHandler) CheckUserStatus(c *gin.Context) {
	status, err := h.api.UserStatus(c.Request.Context(), bearerToken(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, emsapi.ErrNotFound) {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}
		remoteFailure(c, err, "Failed to check user status")
		return
	}

	c.JSON(200, status)
}

// History lists the panel's local audit trail, newest first.
func (h *AdminHandler) History(c *gin.Context) {
	pageNumber, _ := strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	page, err := h.history.List(services.HistoryQuery{
		EntityName: c.Query("entityName"),
		Action:     c.Query("action"),
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(200, page)
}
