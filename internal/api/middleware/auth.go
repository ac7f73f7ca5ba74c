package middleware

import (
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the local session cookie and stores the signed-in
// principal in the request context. The raw remote JWT stays in its own
// cookie and is forwarded untouched to the remote API by the handlers.
func AuthMiddleware(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(services.CookieSession)
		if err != nil || token == "" {
			c.JSON(401, gin.H{"error": "Not authenticated"})
			c.Abort()
			return
		}

		identity, err := sessions.VerifySessionToken(token)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		c.Set("identity", identity)

		c.Next()
	}
}

// RequireRole gates a route group on session roles. This mirrors what the
// remote API enforces on its side; the panel check only shapes the UI.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("identity")
		if !exists {
			c.JSON(401, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		identity := value.(*services.Identity)
		hasRole := false
		for _, role := range roles {
			if identity.HasRole(role) {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(403, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
