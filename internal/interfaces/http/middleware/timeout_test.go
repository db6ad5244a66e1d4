// internal/interfaces/http/middleware/timeout_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
)

func timeoutRouter(d time.Duration, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = d
	router := gin.New()
	router.Use(Timeout(cfg))
	router.GET("/slow", handler)
	return router
}

func TestTimeoutAnswersForHandlerCutOffBeforeWriting(t *testing.T) {
	router := timeoutRouter(10*time.Millisecond, func(c *gin.Context) {
		// an upstream call cancelled by the deadline returns without writing
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.JSONEq(t, `{"error": "Request timeout"}`, w.Body.String())
}

func TestTimeoutKeepsResponseWrittenBeforeDeadline(t *testing.T) {
	router := timeoutRouter(10*time.Millisecond, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok": true}`, w.Body.String())
}

func TestTimeoutAttachesDeadlineToRequestContext(t *testing.T) {
	var hasDeadline bool
	router := timeoutRouter(time.Second, func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, hasDeadline)
}
