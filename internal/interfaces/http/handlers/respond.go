// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/cart"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/wishlist"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/infrastructure/remote"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/session"
)

// currentSession returns the session attached by the session middleware.
func currentSession(c *gin.Context) *session.Session {
	v, _ := c.Get("session")
	s, _ := v.(*session.Session)
	return s
}

// respondError maps the engine error taxonomy to HTTP statuses. Validation
// errors are 400, auth-required signals 401, backend rejections keep their
// status and verbatim message, transport failures are 502.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrAuthRequired) || errors.Is(err, wishlist.ErrAuthRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
			"code":  "auth_required",
		})
		return
	}
	if errors.Is(err, cart.ErrEmptyCode) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var stockErr *cart.StockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": stockErr.Error(),
		})
		return
	}

	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": apiErr.Message,
		})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{
		"error": "Upstream request failed",
	})
}
