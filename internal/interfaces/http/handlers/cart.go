// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/session"
)

// CartHandler handles cart endpoints
type CartHandler struct{}

// NewCartHandler creates a new cart handler
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// AddItemRequest is the body of POST /cart/items. The raw product payload is
// normalized server-side so clients can forward backend records untouched.
type AddItemRequest struct {
	Product   catalog.RawProduct `json:"product"`
	VariantID string             `json:"variantId"`
	Quantity  int                `json:"quantity"`
}

// UpdateItemRequest is the body of PUT /cart/items/:lineId
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// PromocodeRequest is the body of POST /cart/promocode
type PromocodeRequest struct {
	Code string `json:"code"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	s := currentSession(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartPayload(s),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	s := currentSession(c)

	var req AddItemRequest
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

	var variant *catalog.Variant
	if req.VariantID != "" {
		if variant = product.FindVariant(req.VariantID); variant == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Unknown variant for product",
			})
			return
		}
	}

	if err := s.Cart.Add(c.Request.Context(), product, variant, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartPayload(s),
	})
}

// UpdateItem handles PUT /cart/items/:lineId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	s := currentSession(c)
	lineID := c.Param("lineId")

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := s.Cart.UpdateQuantity(c.Request.Context(), lineID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartPayload(s),
	})
}

// RemoveItem handles DELETE /cart/items/:lineId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	s := currentSession(c)
	lineID := c.Param("lineId")

	if err := s.Cart.Remove(c.Request.Context(), lineID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartPayload(s),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	s := currentSession(c)

	if err := s.Cart.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
		"data":    cartPayload(s),
	})
}

// ApplyPromocode handles POST /cart/promocode
func (h *CartHandler) ApplyPromocode(c *gin.Context) {
	s := currentSession(c)

	var req PromocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	promo, err := s.Cart.ApplyPromocode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promocode applied successfully",
		"data": gin.H{
			"promocode": promo,
			"totals":    s.Cart.Totals(),
		},
	})
}

// RemovePromocode handles DELETE /cart/promocode
func (h *CartHandler) RemovePromocode(c *gin.Context) {
	s := currentSession(c)
	s.Cart.RemovePromocode()

	c.JSON(http.StatusOK, gin.H{
		"message": "Promocode removed successfully",
		"data":    cartPayload(s),
	})
}

func cartPayload(s *session.Session) gin.H {
	return gin.H{
		"items":     s.Cart.Items(),
		"totals":    s.Cart.Totals(),
		"promocode": s.Cart.Promocode(),
		"count":     s.Cart.Count(),
		"loading":   s.Cart.Loading(),
	}
}
