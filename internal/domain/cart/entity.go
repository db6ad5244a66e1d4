// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"fmt"

	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
)

// GuestSnapshotKey is the storage key for the guest cart snapshot.
const GuestSnapshotKey = "guestCartItems"

// Line is one purchasable line in a cart. LineID is the stable lookup key,
// derived from the product id alone or "productId_variantId" when a variant
// was selected.
type Line struct {
	LineID          string           `json:"cartId"`
	ProductID       string           `json:"id"`
	VariantID       string           `json:"variantId,omitempty"`
	Name            string           `json:"name"`
	Image           string           `json:"image"`
	UnitPrice       float64          `json:"price"`
	Quantity        int              `json:"quantity"`
	Stock           int              `json:"stock"`
	SelectedVariant *SelectedVariant `json:"selectedVariant,omitempty"`
}

// SelectedVariant is the denormalized variant choice stored on a line.
type SelectedVariant struct {
	ID    string `json:"id"`
	SKU   string `json:"sku,omitempty"`
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}

// DeriveLineID builds the stable line key for a product/variant combination.
func DeriveLineID(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "_" + variantID
}

// DiscountType enumerates the promocode discount rules.
type DiscountType string

const (
	DiscountFixed      DiscountType = "Fixed"
	DiscountPercentage DiscountType = "Percentage"
)

// Promocode is a validated discount code held by the cart engine. At most one
// is active per cart and it is never persisted across guest sessions.
type Promocode struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	MinPurchase   float64      `json:"minPurchase"`
	MaxDiscount   *float64     `json:"maxDiscount"`
}

// EligibleFor reports whether the code may be applied at the given subtotal.
func (p *Promocode) EligibleFor(subtotal float64) bool {
	return subtotal >= p.MinPurchase
}

// DiscountFor computes the discount amount the code contributes at the given
// subtotal. An ineligible code contributes nothing.
func (p *Promocode) DiscountFor(subtotal float64) float64 {
	if !p.EligibleFor(subtotal) {
		return 0
	}
	switch p.DiscountType {
	case DiscountFixed:
		return p.DiscountValue
	case DiscountPercentage:
		discount := subtotal * p.DiscountValue / 100
		if p.MaxDiscount != nil && discount > *p.MaxDiscount {
			discount = *p.MaxDiscount
		}
		return discount
	default:
		return 0
	}
}

// Totals is the derived pricing summary of a cart. It is computed on demand
// and never stored.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	Total          float64 `json:"total"`
}

// LineShape discriminates the two wire shapes a raw cart line can arrive in.
type LineShape int

const (
	// ShapeCanonical marks an already-normalized line, e.g. from a guest
	// snapshot. Identified by the presence of the cart line id.
	ShapeCanonical LineShape = iota
	// ShapeServer marks a backend line with nested product/variant objects.
	ShapeServer
)

// RawCartLine is the union wire shape for cart lines. Guest snapshots store
// canonical lines; the backend returns server-shaped lines with nested
// product and variant records.
type RawCartLine struct {
	CartID          string              `json:"cartId"`
	ID              catalog.FlexID      `json:"id"`
	MongoID         catalog.FlexID      `json:"_id"`
	ProductID       catalog.FlexID      `json:"productId"`
	VariantID       catalog.FlexID      `json:"variantId"`
	Name            string              `json:"name"`
	Image           string              `json:"image"`
	Price           *float64            `json:"price"`
	Quantity        *int                `json:"quantity"`
	Stock           *int                `json:"stock"`
	SelectedVariant *SelectedVariant    `json:"selectedVariant"`
	Product         *catalog.RawProduct `json:"product"`
	Variant         *catalog.RawVariant `json:"variant"`
}

// Shape classifies the line once, at the boundary. Engine logic never
// re-inspects raw fields.
func (r RawCartLine) Shape() LineShape {
	if r.CartID != "" {
		return ShapeCanonical
	}
	return ShapeServer
}

// MergeItem is one entry of a guest-to-user cart merge request.
type MergeItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Engine error taxonomy. Validation errors are rejected before any network
// call; auth-required conditions are signals, not failures.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrEmptyCode    = errors.New("promocode is required")
)

// StockError reports a quantity request exceeding the available stock.
type StockError struct {
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock. Available: %d", e.Available)
}
