// internal/interfaces/http/middleware/timeout.go
package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/config"
)

// Timeout bounds each request by attaching a deadline to its context. Engine
// and backend calls all run under c.Request.Context(), so an expired deadline
// cancels the upstream request on the handler's own goroutine. Nothing else
// touches the response writer, which keeps writes single-threaded.
func Timeout(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.RequestTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// A handler cut off before answering gets a timeout response; one
		// that already wrote keeps its response.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			c.JSON(http.StatusRequestTimeout, gin.H{
				"error": "Request timeout",
			})
			c.Abort()
		}
	}
}
