package emsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ems-web/internal/models"
)

// LoginRequest is the credential pair posted to User/login.
type LoginRequest struct {
	UserName string `json:"userName" form:"userName" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterUserRequest is the payload for User/Create.
type RegisterUserRequest struct {
	FirstName   string     `json:"firstName" form:"firstName" binding:"required"`
	LastName    string     `json:"lastName" form:"lastName" binding:"required"`
	Email       string     `json:"email" form:"email" binding:"required,email"`
	UserName    string     `json:"userName" form:"userName" binding:"required"`
	Password    string     `json:"password" form:"password" binding:"required"`
	PhoneNumber string     `json:"phoneNumber" form:"phoneNumber"`
	Gender      string     `json:"gender" form:"gender"`
	Address     string     `json:"address" form:"address"`
	DateOfBirth *time.Time `json:"dateOfBirth" form:"dateOfBirth"`
}

// UpdateUserRequest is the payload for PUT User/{id}.
type UpdateUserRequest struct {
	UserID      string     `json:"userId" form:"userId" binding:"required"`
	FirstName   string     `json:"firstName" form:"firstName"`
	LastName    string     `json:"lastName" form:"lastName"`
	Address     string     `json:"address" form:"address"`
	Gender      string     `json:"gender" form:"gender"`
	DateOfBirth *time.Time `json:"dob" form:"dob"`
}

// UserQuery carries the listing parameters for User/All. Optional filters
// are written to the query string only when set; pageNumber and pageSize
// are always present.
type UserQuery struct {
	SearchTerm     string
	IsActive       *bool
	Gender         string
	SortBy         string
	SortDescending *bool
	PageNumber     int
	PageSize       int
}

func (q UserQuery) Values() url.Values {
	v := url.Values{}
	if q.SearchTerm != "" {
		v.Set("searchTerm", q.SearchTerm)
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}
	if q.Gender != "" {
		v.Set("gender", q.Gender)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDescending != nil {
		v.Set("sortDescending", strconv.FormatBool(*q.SortDescending))
	}
	page := q.PageNumber
	if page <= 0 {
		page = 1
	}
	size := q.PageSize
	if size <= 0 {
		size = 10
	}
	v.Set("pageNumber", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(size))
	return v
}

// Login posts credentials and returns the remote token pair. No cookies
// are involved here; the session bridge takes over on success.
func (c *Client) Login(ctx context.Context, creds LoginRequest) (*models.LoginSession, error) {
	var env Envelope[models.LoginSession]
	if err := c.call(ctx, http.MethodPost, "User/login", nil, creds, "", &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// SignOut tells the remote API to invalidate the session. Callers treat
// failures as best-effort; local cookies are cleared regardless.
func (c *Client) SignOut(ctx context.Context, token string) error {
	return c.call(ctx, http.MethodPost, "User/signout", nil, nil, token, nil)
}

// ListUsers fetches a page of users. Filtering and sorting happen remotely.
func (c *Client) ListUsers(ctx context.Context, token string, q UserQuery) (*models.PagedResult[models.User], error) {
	var env Envelope[models.PagedResult[models.User]]
	if err := c.call(ctx, http.MethodGet, "User/All", q.Values(), nil, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) GetUser(ctx context.Context, token, id string) (*models.User, error) {
	var env Envelope[models.User]
	if err := c.call(ctx, http.MethodGet, "User/"+url.PathEscape(id), nil, nil, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, req RegisterUserRequest) (string, error) {
	var env Envelope[models.User]
	if err := c.call(ctx, http.MethodPost, "User/Create", nil, req, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, req UpdateUserRequest) (string, error) {
	var env Envelope[models.User]
	if err := c.call(ctx, http.MethodPut, "User/"+url.PathEscape(id), nil, req, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) (string, error) {
	var env Envelope[struct{}]
	if err := c.call(ctx, http.MethodDelete, "User/"+url.PathEscape(id), nil, nil, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

// SoftDeleteUser toggles the user inactive. Repeating the call on an
// already-inactive user is a remote no-op.
func (c *Client) SoftDeleteUser(ctx context.Context, token, id string) (string, error) {
	var env Envelope[struct{}]
	path := fmt.Sprintf("User/%s/soft-delete", url.PathEscape(id))
	if err := c.call(ctx, http.MethodPatch, path, nil, nil, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) RestoreUser(ctx context.Context, token, id string) (string, error) {
	var env Envelope[struct{}]
	path := fmt.Sprintf("User/%s/restore", url.PathEscape(id))
	if err := c.call(ctx, http.MethodPatch, path, nil, nil, token, &env); err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) UserStatus(ctx context.Context, token, id string) (*models.UserStatus, error) {
	var env Envelope[models.UserStatus]
	path := fmt.Sprintf("User/%s/status", url.PathEscape(id))
	if err := c.call(ctx, http.MethodGet, path, nil, nil, token, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}
