package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"ems-web/internal/emsapi"
	"ems-web/internal/models"
	"ems-web/internal/services"

	"github.com/gin-gonic/gin"
)

// bearerToken reads the raw remote JWT from its cookie. An empty token is
// fine: the remote API rejects the call and that surfaces as a failure.
func bearerToken(c *gin.Context) string {
	token, err := c.Cookie(services.CookieJWT)
	if err != nil {
		return ""
	}
	return token
}

func currentIdentity(c *gin.Context) *services.Identity {
	value, exists := c.Get("identity")
	if !exists {
		return nil
	}
	identity, _ := value.(*services.Identity)
	return identity
}

// remoteFailure converts a failed remote call into a user-facing outcome.
// Remote rejections keep the envelope message; transport and decode faults
// are logged and downgraded to the generic message.
func remoteFailure(c *gin.Context, err error, generic string) {
	var remote *emsapi.RemoteError
	if errors.As(err, &remote) {
		log.Printf("Remote API rejection (%d): %s", remote.StatusCode, remote.Message)
		message := remote.Message
		if message == "" {
			message = generic
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": message})
		return
	}

	log.Printf("Remote call failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
}

// recordHistory writes a local audit row for a panel-initiated action.
func recordHistory(history *services.HistoryService, c *gin.Context, entity, entityID, action, newValues, description string) {
	actor := ""
	if identity := currentIdentity(c); identity != nil {
		actor = identity.UserID
	}
	history.Record(&models.SystemHistory{
		EntityName:  entity,
		EntityID:    entityID,
		Action:      action,
		ChangedBy:   actor,
		NewValues:   newValues,
		Description: description,
		IPAddress:   c.ClientIP(),
		TraceID:     c.GetString("request_id"),
	})
}

// parseUserQuery reads the listing parameters from the query string.
// Everything is passed through to the remote API; no local filtering.
func parseUserQuery(c *gin.Context) emsapi.UserQuery {
	q := emsapi.UserQuery{
		SearchTerm: c.Query("searchTerm"),
		Gender:     c.Query("gender"),
		SortBy:     c.Query("sortBy"),
	}
	if v := c.Query("isActive"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			q.IsActive = &b
		}
	}
	if v := c.Query("sortDescending"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			q.SortDescending = &b
		}
	}
	q.PageNumber, _ = strconv.Atoi(c.DefaultQuery("pageNumber", "1"))
	q.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	return q
}
