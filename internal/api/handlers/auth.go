package handlers

import (
	"log"
	"net/http"
	"time"

	"ems-web/internal/config"
	"ems-web/internal/emsapi"
	"ems-web/internal/models"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	api      *emsapi.Client
	sessions *services.SessionService
	history  *services.HistoryService
	cfg      *config.Config
}

func NewAuthHandler(api *emsapi.Client, sessions *services.SessionService, history *services.HistoryService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		api:      api,
		sessions: sessions,
		history:  history,
		cfg:      cfg,
	}
}

// LoginPage describes the login form for the front-end.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(200, gin.H{"fields": []string{"userName", "password"}})
}

// Login forwards credentials to the remote API and, on success, bridges the
// returned JWT into the local cookie session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req emsapi.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	session, err := h.api.Login(c.Request.Context(), req)
	if err != nil {
		log.Printf("Login rejected for %q: %v", req.UserName, err)
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	// Decode-only: the remote API signed this token and stays the authority.
	identity, err := h.sessions.IdentityFromAccessToken(session.AccessToken)
	if err != nil {
		log.Printf("Login returned an unreadable access token: %v", err)
		c.JSON(500, gin.H{"error": "Sign-in failed"})
		return
	}

	sessionToken, _, err := h.sessions.IssueSessionToken(identity, time.Now())
	if err != nil {
		log.Printf("Failed to issue session token: %v", err)
		c.JSON(500, gin.H{"error": "Sign-in failed"})
		return
	}

	h.setAuthCookies(c, session, sessionToken)

	h.history.Record(&models.SystemHistory{
		EntityName: "User",
		EntityID:   identity.UserID,
		Action:     models.ActionLogin,
		ChangedBy:  identity.UserID,
		IPAddress:  c.ClientIP(),
		TraceID:    c.GetString("request_id"),
	})

	c.Redirect(http.StatusFound, "/")
}

// SignOut posts to the remote sign-out endpoint best-effort, then tears
// down the local session regardless of the outcome.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.api.SignOut(c.Request.Context(), bearerToken(c)); err != nil {
		log.Printf("Remote sign-out failed (ignored): %v", err)
	}

	if identity := currentIdentity(c); identity != nil {
		h.history.Record(&models.SystemHistory{
			EntityName: "User",
			EntityID:   identity.UserID,
			Action:     models.ActionLogout,
			ChangedBy:  identity.UserID,
			IPAddress:  c.ClientIP(),
			TraceID:    c.GetString("request_id"),
		})
	}

	h.clearAuthCookies(c)
	c.Redirect(http.StatusFound, "/")
}

// Me returns the signed-in principal.
func (h *AuthHandler) Me(c *gin.Context) {
	identity := currentIdentity(c)
	if identity == nil {
		c.JSON(401, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(200, gin.H{
		"id":       identity.UserID,
		"userName": identity.UserName,
		"email":    identity.Email,
		"roles":    identity.Roles,
	})
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, session *models.LoginSession, sessionToken string) {
	secure := h.cfg.Session.CookieSecure
	domain := h.cfg.Session.CookieDomain
	access := int(h.cfg.Session.AccessLifetime().Seconds())
	refresh := int(h.cfg.Session.RefreshLifetime().Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.CookieJWT, session.AccessToken, access, "/", domain, secure, true)
	c.SetCookie(services.CookieRefresh, session.RefreshToken, refresh, "/", domain, secure, true)
	c.SetCookie(services.CookieSession, sessionToken, access, "/", domain, secure, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	secure := h.cfg.Session.CookieSecure
	domain := h.cfg.Session.CookieDomain

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(services.CookieJWT, "", -1, "/", domain, secure, true)
	c.SetCookie(services.CookieRefresh, "", -1, "/", domain, secure, true)
	c.SetCookie(services.CookieSession, "", -1, "/", domain, secure, true)
}
