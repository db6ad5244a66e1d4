// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/interfaces/http/handlers"
)

// SetupRoutes wires the cart and wishlist endpoint families. The caller has
// already attached identity and session middleware to the group.
func SetupRoutes(rg *gin.RouterGroup) {
	cartHandler := handlers.NewCartHandler()
	wishlistHandler := handlers.NewWishlistHandler()

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:lineId", cartHandler.UpdateItem)
		cart.DELETE("/items/:lineId", cartHandler.RemoveItem)
		cart.POST("/promocode", cartHandler.ApplyPromocode)
		cart.DELETE("/promocode", cartHandler.RemovePromocode)
	}

	wishlist := rg.Group("/wishlist")
	{
		wishlist.GET("", wishlistHandler.GetWishlist)
		wishlist.POST("/toggle", wishlistHandler.Toggle)
		wishlist.DELETE("/:productId", wishlistHandler.RemoveItem)
	}
}
