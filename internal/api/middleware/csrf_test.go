package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func csrfTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CSRF([]string{"http://localhost:8080", "https://panel.example.com/"}))
	handler := func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) }
	r.GET("/resource", handler)
	r.POST("/resource", handler)
	return r
}

func TestCSRF(t *testing.T) {
	router := csrfTestRouter()

	send := func(method, origin, referer string) *httptest.ResponseRecorder {
		req, _ := http.NewRequest(method, "/resource", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("GET is never checked", func(t *testing.T) {
		w := send(http.MethodGet, "http://evil.example.com", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST with an allowed origin", func(t *testing.T) {
		w := send(http.MethodPost, "http://localhost:8080", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("POST with a foreign origin", func(t *testing.T) {
		w := send(http.MethodPost, "http://evil.example.com", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Origin matching ignores case and trailing slash", func(t *testing.T) {
		w := send(http.MethodPost, "HTTPS://Panel.Example.Com", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Referer is the fallback check", func(t *testing.T) {
		w := send(http.MethodPost, "", "http://localhost:8080/users/u1/edit")
		assert.Equal(t, http.StatusOK, w.Code)

		w = send(http.MethodPost, "", "http://evil.example.com/form")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("POST without either header is allowed", func(t *testing.T) {
		w := send(http.MethodPost, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
