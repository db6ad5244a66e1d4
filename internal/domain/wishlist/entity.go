// internal/domain/wishlist/entity.go
package wishlist

import (
	"errors"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
)

// GuestSnapshotKey is the storage key for the guest wishlist snapshot.
const GuestSnapshotKey = "guestWishlistItems"

// Entry is a product reference held in a wishlist, denormalized for rendering
// without a refetch. ProductID is unique within a wishlist.
type Entry struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

// RawEntry is the union wire shape for wishlist entries: a flat product
// object (guest snapshots store raw products) or a backend record with the
// product nested.
type RawEntry struct {
	MongoID       catalog.FlexID      `json:"_id"`
	ID            catalog.FlexID      `json:"id"`
	ProductID     catalog.FlexID      `json:"productId"`
	Name          string              `json:"name"`
	Title         string              `json:"title"`
	Image         string              `json:"image"`
	Images        []catalog.RawImage  `json:"images"`
	Price         *float64            `json:"price"`
	BasePrice     *float64            `json:"basePrice"`
	DiscountPrice *float64            `json:"discountPrice"`
	Product       *catalog.RawProduct `json:"product"`
}

// ErrAuthRequired signals that the operation needs an authenticated session.
// It never accompanies a state mutation.
var ErrAuthRequired = errors.New("authentication required")
