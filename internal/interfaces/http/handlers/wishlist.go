// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/session"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct{}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler() *WishlistHandler {
	return &WishlistHandler{}
}

// ToggleRequest is the body of POST /wishlist/toggle
type ToggleRequest struct {
	Product catalog.RawProduct `json:"product"`
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	s := currentSession(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Wishlist retrieved successfully",
		"data":    wishlistPayload(s),
	})
}

// Toggle handles POST /wishlist/toggle
func (h *WishlistHandler) Toggle(c *gin.Context) {
	s := currentSession(c)

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product := catalog.NormalizeProduct(req.Product)
	if product.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product id is required",
		})
		return
	}

	if err := s.Wishlist.Toggle(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}

	message := "Item added to wishlist successfully"
	if !s.Wishlist.IsMember(product.ID) {
		message = "Item removed from wishlist successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    wishlistPayload(s),
	})
}

// RemoveItem handles DELETE /wishlist/:productId
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	s := currentSession(c)
	productID := c.Param("productId")

	if err := s.Wishlist.Remove(c.Request.Context(), productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from wishlist successfully",
		"data":    wishlistPayload(s),
	})
}

func wishlistPayload(s *session.Session) gin.H {
	return gin.H{
		"items":   s.Wishlist.Items(),
		"count":   s.Wishlist.Count(),
		"loading": s.Wishlist.Loading(),
	}
}
