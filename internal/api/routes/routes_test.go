package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ems-web/internal/config"
	"ems-web/internal/models"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream is a fake remote Employee Management API. Endpoints are
// registered per test; every request is counted.
type upstream struct {
	mux  *http.ServeMux
	hits int32
}

func (u *upstream) hitCount() int32 {
	return atomic.LoadInt32(&u.hits)
}

func newUpstream(t *testing.T) (*upstream, *config.Config) {
	u := &upstream{mux: http.NewServeMux()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.hits, 1)
		u.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL: srv.URL + "/",
			Timeout: "5s",
		},
		Session: config.SessionConfig{
			Secret: "test-session-secret",
			Issuer: "ems-web-test",
		},
		Security: config.SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
		},
	}
	return u, cfg
}

func writeEnvelope(w http.ResponseWriter, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"isSuccess": true,
		"message":   message,
		"data":      data,
	})
}

func setupTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, cfg)
	return r
}

// remoteAccessToken builds a JWT the way the remote API issues them.
// The signing key does not matter: the panel decodes without verifying.
func remoteAccessToken(t *testing.T, roles ...string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"name":  "alice",
		"email": "alice@example.com",
		"role":  roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	return signed
}

// authCookies fabricates the signed-in cookie set directly, the same
// shape the login handler produces.
func authCookies(t *testing.T, cfg *config.Config, roles ...string) []*http.Cookie {
	sessions := services.NewSessionService(cfg)
	identity := &services.Identity{
		UserID:   "u1",
		UserName: "alice",
		Email:    "alice@example.com",
		Roles:    roles,
	}
	sessionToken, _, err := sessions.IssueSessionToken(identity, time.Now())
	require.NoError(t, err)

	return []*http.Cookie{
		{Name: services.CookieSession, Value: sessionToken},
		{Name: services.CookieJWT, Value: remoteAccessToken(t, roles...)},
	}
}

func doRequest(router *gin.Engine, method, path string, body string, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	return doRequest(router, http.MethodPost, path, form.Encode(), "application/x-www-form-urlencoded", cookies)
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuthFlow(t *testing.T) {
	t.Run("POST /login - Success sets cookies and redirects home", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("POST /User/login", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]string{
				"accessToken":  remoteAccessToken(t, "Admin"),
				"refreshToken": "refresh-1",
			}, "Login successful")
		})
		router := setupTestRouter(cfg)

		w := postForm(router, "/login", url.Values{"userName": {"alice"}, "password": {"secret"}}, nil)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		jwtCookie := cookieByName(cookies, services.CookieJWT)
		require.NotNil(t, jwtCookie)
		assert.True(t, jwtCookie.HttpOnly)
		refreshCookie := cookieByName(cookies, services.CookieRefresh)
		require.NotNil(t, refreshCookie)
		assert.Equal(t, "refresh-1", refreshCookie.Value)
		require.NotNil(t, cookieByName(cookies, services.CookieSession))
	})

	t.Run("GET / - Admin is redirected to the dashboard", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin", w.Header().Get("Location"))
	})

	t.Run("GET / - Regular user stays on the landing page", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/", "", "", authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, "alice", body["userName"])
	})

	t.Run("GET / - Anonymous", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/", "", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decodeBody(t, w)["authenticated"])
	})

	t.Run("POST /login - Invalid credentials", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("POST /User/login", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"isSuccess":false,"message":"Invalid username or password"}`))
		})
		router := setupTestRouter(cfg)

		w := postForm(router, "/login", url.Values{"userName": {"alice"}, "password": {"wrong"}}, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decodeBody(t, w)["error"])
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("POST /login - Missing fields never reach the remote API", func(t *testing.T) {
		u, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := postForm(router, "/login", url.Values{"userName": {"alice"}}, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, int32(0), u.hitCount())
	})

	t.Run("POST /signout - Clears cookies even when the remote call fails", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("POST /User/signout", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodPost, "/signout", "", "", authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		for _, name := range []string{services.CookieJWT, services.CookieRefresh, services.CookieSession} {
			cleared := cookieByName(w.Result().Cookies(), name)
			require.NotNil(t, cleared, name)
			assert.Empty(t, cleared.Value)
			assert.Less(t, cleared.MaxAge, 0)
		}
		assert.Equal(t, int32(1), u.hitCount())
	})

	t.Run("GET /me - Returns the signed-in principal", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/me", "", "", authCookies(t, cfg, "Admin", "User"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "u1", body["id"])
		assert.Equal(t, "alice", body["userName"])
	})
}

func TestUserRoutes(t *testing.T) {
	t.Run("GET /users - Unauthorized without a session", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/users", "", "", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /users - Lists users with default paging", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("GET /User/All", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("pageNumber"))
			assert.Equal(t, "10", r.URL.Query().Get("pageSize"))
			assert.Empty(t, r.URL.Query().Get("searchTerm"))
			writeEnvelope(w, map[string]interface{}{
				"items":      []map[string]interface{}{{"id": "u1", "firstName": "Alice", "lastName": "Smith"}},
				"totalCount": 1,
				"pageNumber": 1,
				"pageSize":   10,
			}, "")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/users", "", "", authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, decodeBody(t, w), "users")
	})

	t.Run("GET /users/:id - Not found", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/users/missing", "", "", authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decodeBody(t, w)["error"])
	})

	t.Run("POST /users - Conflict maps to a friendly message", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("POST /User/Create", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})
		router := setupTestRouter(cfg)

		form := url.Values{
			"firstName": {"Bob"},
			"lastName":  {"Jones"},
			"email":     {"bob@example.com"},
			"userName":  {"bob"},
			"password":  {"secret123"},
		}
		w := postForm(router, "/users", form, authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "User already exists", decodeBody(t, w)["error"])
	})

	t.Run("POST /users - Forbidden for non-admins", func(t *testing.T) {
		u, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := postForm(router, "/users", url.Values{"userName": {"bob"}}, authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, int32(0), u.hitCount())
	})

	t.Run("POST /users/soft-delete - Missing user id never reaches the remote API", func(t *testing.T) {
		u, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := postForm(router, "/users/soft-delete", url.Values{"userId": {"  "}}, authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User ID is required", decodeBody(t, w)["error"])
		assert.Equal(t, int32(0), u.hitCount())
	})

	t.Run("Soft delete and restore are idempotent", func(t *testing.T) {
		u, cfg := newUpstream(t)
		active := true
		u.mux.HandleFunc("PATCH /User/u7/soft-delete", func(w http.ResponseWriter, r *http.Request) {
			active = false
			writeEnvelope(w, nil, "User deactivated")
		})
		u.mux.HandleFunc("PATCH /User/u7/restore", func(w http.ResponseWriter, r *http.Request) {
			active = true
			writeEnvelope(w, nil, "User restored")
		})
		router := setupTestRouter(cfg)
		cookies := authCookies(t, cfg, "User")

		for i := 0; i < 2; i++ {
			w := postForm(router, "/users/soft-delete", url.Values{"userId": {"u7"}}, cookies)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, active)
		}
		for i := 0; i < 2; i++ {
			w := postForm(router, "/users/restore", url.Values{"userId": {"u7"}}, cookies)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, active)
		}
	})

	t.Run("POST /users/:id/edit - Body and path ids must match", func(t *testing.T) {
		u, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		form := url.Values{"userId": {"u2"}, "firstName": {"Alice"}}
		w := postForm(router, "/users/u1/edit", form, authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User id mismatch", decodeBody(t, w)["error"])
		assert.Equal(t, int32(0), u.hitCount())
	})

	t.Run("GET /users/:id/roles - Loads the manage-roles payload in one call", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("GET /Role/ManageRoles/u1", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]interface{}{
				"userFullName": "Alice Smith",
				"userEmail":    "alice@example.com",
				"userRoles":    []string{"User"},
				"allRoles": []map[string]string{
					{"id": "r1", "name": "Admin"},
					{"id": "r2", "name": "User"},
				},
			}, "")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/users/u1/roles", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		var payload models.UserRoles
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		// Blanks filled locally when the remote payload omits them
		assert.Equal(t, "u1", payload.UserID)
		assert.Equal(t, "Alice Smith", payload.UserFullName)
		assert.Equal(t, []string{"User"}, payload.UserRoles)
		assert.Equal(t, []string{"User"}, payload.SelectedRoles)
		assert.Len(t, payload.AllRoles, 2)
		assert.Equal(t, int32(1), u.hitCount())
	})
}

func TestRoleRoutes(t *testing.T) {
	t.Run("GET /roles - Forbidden for non-admins", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/roles", "", "", authCookies(t, cfg, "User"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST /roles - Conflict maps to a friendly message", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("POST /Role/Add", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})
		router := setupTestRouter(cfg)

		w := postForm(router, "/roles", url.Values{"roleName": {"Admin"}}, authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Role already exists", decodeBody(t, w)["error"])
	})

	t.Run("POST /roles/:id/permissions/remove - Success", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("DELETE /Permission/r1/permissions/5", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		router := setupTestRouter(cfg)

		w := postForm(router, "/roles/r1/permissions/remove", url.Values{"permissionId": {"5"}}, authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Permission removed successfully", body["message"])
	})

	t.Run("POST /roles/:id/permissions/remove - Remote failure stays a JSON flag", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("DELETE /Permission/r1/permissions/5", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		router := setupTestRouter(cfg)

		w := postForm(router, "/roles/r1/permissions/remove", url.Values{"permissionId": {"5"}}, authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Failed to remove permission", body["message"])
	})

	t.Run("POST /roles/:id/permissions/add - Invalid permission id", func(t *testing.T) {
		u, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := postForm(router, "/roles/r1/permissions/add", url.Values{}, authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Invalid permission id", body["message"])
		assert.Equal(t, int32(0), u.hitCount())
	})

	t.Run("GET /roles/:id/permissions - Includes the selection and display labels", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("GET /Permission/r1/permissions", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]interface{}{
				"roleId":   "r1",
				"roleName": "Admin",
				"currentPermissions": []map[string]interface{}{
					{"id": 1, "name": "Users.View"},
					{"id": 3, "name": "Users.Delete", "displayName": "Remove users"},
				},
				"allPermissions": []map[string]interface{}{
					{"id": 1, "name": "Users.View"},
					{"id": 2, "name": "Users.Create"},
					{"id": 3, "name": "Users.Delete", "displayName": "Remove users"},
				},
			}, "")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/roles/r1/permissions", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Admin", body["roleName"])
		assert.Equal(t, []interface{}{float64(1), float64(3)}, body["selectedPermissionIds"])

		all := body["allPermissions"].([]interface{})
		require.Len(t, all, 3)
		// Name suffix when the server sends no display name, display name when it does
		assert.Equal(t, "View", all[0].(map[string]interface{})["label"])
		assert.Equal(t, "Create", all[1].(map[string]interface{})["label"])
		assert.Equal(t, "Remove users", all[2].(map[string]interface{})["label"])

		current := body["currentPermissions"].([]interface{})
		require.Len(t, current, 2)
		assert.Equal(t, "Remove users", current[1].(map[string]interface{})["label"])
	})

	t.Run("GET /roles/manage/:userId - Builds the payload from the catalog", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("GET /User/u1", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]interface{}{
				"id": "u1", "firstName": "Alice", "lastName": "Smith", "email": "alice@example.com",
			}, "")
		})
		u.mux.HandleFunc("GET /Role/All", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, []map[string]string{
				{"id": "r1", "name": "Admin"},
				{"id": "r2", "name": "User"},
			}, "")
		})
		u.mux.HandleFunc("GET /Role/u1/roles", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, []string{"User"}, "")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/roles/manage/u1", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		var payload models.UserRoles
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "u1", payload.UserID)
		assert.Equal(t, "Alice Smith", payload.UserFullName)
		assert.Equal(t, []string{"User"}, payload.UserRoles)
		assert.Equal(t, []string{"User"}, payload.SelectedRoles)
		assert.Len(t, payload.AllRoles, 2)
		assert.Equal(t, int32(3), u.hitCount())
	})
}

func TestAdminRoutes(t *testing.T) {
	t.Run("GET /admin - Dashboard", func(t *testing.T) {
		_, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/admin", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", decodeBody(t, w)["userName"])
	})

	t.Run("GET /admin/users - Applies the dashboard sort defaults", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("GET /User/All", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "CreatedAt", r.URL.Query().Get("sortBy"))
			assert.Equal(t, "true", r.URL.Query().Get("sortDescending"))
			writeEnvelope(w, map[string]interface{}{
				"items": []map[string]interface{}{}, "totalCount": 0, "pageNumber": 1, "pageSize": 10,
			}, "")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/admin/users", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GET /admin/users/:id/status - Passes the status through", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("GET /User/u1/status", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, map[string]interface{}{"userId": "u1", "isActive": true, "status": "Active"}, "")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodGet, "/admin/users/u1/status", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Active", body["status"])
		assert.Equal(t, true, body["isActive"])
	})

	t.Run("PATCH /admin/users/:id/soft-delete - Forwards to the remote API", func(t *testing.T) {
		u, cfg := newUpstream(t)
		u.mux.HandleFunc("PATCH /User/u9/soft-delete", func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, nil, "User deactivated")
		})
		router := setupTestRouter(cfg)

		w := doRequest(router, http.MethodPatch, "/admin/users/u9/soft-delete", "", "", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "User deactivated", decodeBody(t, w)["message"])
	})

	t.Run("POST /admin/users - Validates the JSON body", func(t *testing.T) {
		u, cfg := newUpstream(t)
		router := setupTestRouter(cfg)

		payload, _ := json.Marshal(map[string]string{"firstName": "Bob"})
		w := doRequest(router, http.MethodPost, "/admin/users", string(payload), "application/json", authCookies(t, cfg, "Admin"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, int32(0), u.hitCount())
	})
}

func TestHistoryRoute(t *testing.T) {
	_, cfg := newUpstream(t)
	cfg.Database = config.DatabaseConfig{
		Type: "sqlite",
		SQLite: config.SQLiteConfig{
			Path: fmt.Sprintf("%s/ems_web_test_%d.db", os.TempDir(), time.Now().UnixNano()),
		},
	}
	require.NoError(t, models.InitDB(cfg))
	defer func() {
		if models.DB != nil {
			if sqlDB, err := models.DB.DB(); err == nil {
				sqlDB.Close()
			}
		}
		os.Remove(cfg.Database.SQLite.Path)
		models.DB = nil
	}()

	history := services.NewHistoryService()
	history.Record(&models.SystemHistory{
		EntityName: "User",
		EntityID:   "u7",
		Action:     models.ActionSoftDelete,
		ChangedBy:  "u1",
	})
	history.Record(&models.SystemHistory{
		EntityName: "Role",
		EntityID:   "r1",
		Action:     models.ActionCreate,
		ChangedBy:  "u1",
	})

	router := setupTestRouter(cfg)
	cookies := authCookies(t, cfg, "Admin")

	t.Run("GET /admin/history - Lists recorded actions", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/admin/history", "", "", cookies)

		assert.Equal(t, http.StatusOK, w.Code)
		var page models.PagedResult[models.SystemHistory]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 2, page.TotalCount)
	})

	t.Run("GET /admin/history - Filters by entity", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/admin/history?entityName=Role", "", "", cookies)

		assert.Equal(t, http.StatusOK, w.Code)
		var page models.PagedResult[models.SystemHistory]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		require.Equal(t, 1, page.TotalCount)
		assert.Equal(t, "r1", page.Items[0].EntityID)
		assert.NotEmpty(t, page.Items[0].TraceID)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	_, cfg := newUpstream(t)
	router := setupTestRouter(cfg)

	t.Run("GET /api/health", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/health", "", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decodeBody(t, w)["status"])
	})

	t.Run("GET /metrics", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/metrics", "", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http_in_flight_requests")
	})
}
