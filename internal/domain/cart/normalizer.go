// internal/domain/cart/normalizer.go
package cart

import (
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
)

// NormalizeLines converts raw cart lines of either wire shape into canonical
// lines. It is total: malformed entries degrade to documented defaults and a
// nil input yields an empty result.
func NormalizeLines(raw []RawCartLine) []Line {
	if len(raw) == 0 {
		return []Line{}
	}
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		var line Line
		switch r.Shape() {
		case ShapeCanonical:
			line = normalizeCanonical(r)
		default:
			line = normalizeServer(r)
		}
		if line.LineID == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// normalizeCanonical passes an already-canonical line through with type
// coercion and defaulting.
func normalizeCanonical(r RawCartLine) Line {
	line := Line{
		LineID:          r.CartID,
		ProductID:       string(r.ID),
		VariantID:       string(r.VariantID),
		Name:            r.Name,
		Image:           r.Image,
		Quantity:        1,
		SelectedVariant: r.SelectedVariant,
	}
	if line.ProductID == "" {
		line.ProductID = string(r.MongoID)
	}
	if r.Price != nil {
		line.UnitPrice = *r.Price
	}
	if r.Quantity != nil && *r.Quantity >= 1 {
		line.Quantity = *r.Quantity
	}
	if r.Stock != nil {
		line.Stock = *r.Stock
	}
	if line.VariantID == "" && r.SelectedVariant != nil {
		line.VariantID = r.SelectedVariant.ID
	}
	if line.Image == "" {
		line.Image = catalog.PlaceholderImage
	}
	return line
}

// normalizeServer flattens a backend line with nested product/variant objects.
// Unit price precedence: line-level override, variant price, product discount
// price, product base price, 0.
func normalizeServer(r RawCartLine) Line {
	line := Line{
		ProductID: string(r.ProductID),
		VariantID: string(r.VariantID),
		Name:      r.Name,
		Image:     r.Image,
		Quantity:  1,
	}
	if r.Quantity != nil && *r.Quantity >= 1 {
		line.Quantity = *r.Quantity
	}
	if r.Stock != nil {
		line.Stock = *r.Stock
	}

	if r.Product != nil {
		if line.ProductID == "" {
			line.ProductID = r.Product.Identifier()
		}
		if line.Name == "" {
			line.Name = r.Product.Name
		}
		if line.Image == "" {
			line.Image = catalog.SelectImage(*r.Product)
		}
		if r.Stock == nil && r.Product.TotalStock != nil {
			line.Stock = *r.Product.TotalStock
		}
	}
	if line.ProductID == "" {
		line.ProductID = firstID(r.ID, r.MongoID)
	}

	if r.Variant != nil {
		if line.VariantID == "" {
			line.VariantID = r.Variant.Identifier()
		}
		sv := SelectedVariant{ID: r.Variant.Identifier(), SKU: r.Variant.SKU}
		if r.Variant.Color != nil {
			sv.Color = r.Variant.Color.Name
		}
		if r.Variant.Size != nil {
			sv.Size = r.Variant.Size.Name
		}
		line.SelectedVariant = &sv
		if r.Stock == nil && r.Variant.CurrentStock != nil {
			line.Stock = *r.Variant.CurrentStock
		}
	}

	line.UnitPrice = resolveUnitPrice(r)
	line.LineID = DeriveLineID(line.ProductID, line.VariantID)
	if line.Image == "" {
		line.Image = catalog.PlaceholderImage
	}
	return line
}

func resolveUnitPrice(r RawCartLine) float64 {
	if r.Price != nil {
		return *r.Price
	}
	if r.Variant != nil && r.Variant.Price != nil && *r.Variant.Price > 0 {
		return *r.Variant.Price
	}
	if r.Product != nil {
		if r.Product.DiscountPrice != nil && *r.Product.DiscountPrice > 0 {
			return *r.Product.DiscountPrice
		}
		if r.Product.BasePrice != nil {
			return *r.Product.BasePrice
		}
	}
	return 0
}

func firstID(ids ...catalog.FlexID) string {
	for _, id := range ids {
		if id != "" {
			return string(id)
		}
	}
	return ""
}
