package handlers

import (
	"net/http"

	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

type HomeHandler struct {
	sessions *services.SessionService
}

func NewHomeHandler(sessions *services.SessionService) *HomeHandler {
	return &HomeHandler{sessions: sessions}
}

// Index is the landing page. Signed-in admins are sent to the admin
// dashboard based on the JWT's own role claims; no remote call is made.
func (h *HomeHandler) Index(c *gin.Context) {
	sessionToken, err := c.Cookie(services.CookieSession)
	if err != nil || sessionToken == "" {
		c.JSON(200, gin.H{"authenticated": false})
		return
	}

	identity, err := h.sessions.VerifySessionToken(sessionToken)
	if err != nil {
		c.JSON(200, gin.H{"authenticated": false})
		return
	}

	if jwtToken, err := c.Cookie(services.CookieJWT); err == nil && jwtToken != "" {
		if claims, err := h.sessions.IdentityFromAccessToken(jwtToken); err == nil && claims.HasRole("Admin") {
			c.Redirect(http.StatusFound, "/admin")
			return
		}
	}

	c.JSON(200, gin.H{
		"authenticated": true,
		"userName":      identity.UserName,
		"roles":         identity.Roles,
	})
}

func (h *HomeHandler) Privacy(c *gin.Context) {
	c.JSON(200, gin.H{"page": "privacy"})
}
