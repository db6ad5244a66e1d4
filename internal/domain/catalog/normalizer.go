// internal/domain/catalog/normalizer.go
package catalog

import "math"

// NormalizeProduct converts a raw backend product into the canonical shape.
// It is total: missing fields degrade to zero values, a missing image degrades
// to PlaceholderImage, and an absent price resolves to 0.
func NormalizeProduct(raw RawProduct) Product {
	p := Product{
		ID:   raw.Identifier(),
		Name: firstNonEmpty(raw.Name, raw.Title, "Untitled product"),
	}

	p.Image = SelectImage(raw)

	if raw.BasePrice != nil {
		p.BasePrice = *raw.BasePrice
	}
	if raw.DiscountPrice != nil {
		p.DiscountPrice = *raw.DiscountPrice
	}

	// Effective price: discount price wins over base price; a plain price
	// field is the fallback for already-flattened payloads.
	switch {
	case p.DiscountPrice > 0:
		p.Price = p.DiscountPrice
	case p.BasePrice > 0:
		p.Price = p.BasePrice
	case raw.Price != nil:
		p.Price = *raw.Price
	}

	if p.DiscountPrice > 0 && p.BasePrice > p.DiscountPrice {
		p.OriginalPrice = p.BasePrice
	}

	p.DiscountPercent = discountPercent(raw)

	if raw.TotalStock != nil {
		p.Stock = *raw.TotalStock
	} else if raw.Stock != nil {
		p.Stock = *raw.Stock
	}
	p.InStock = p.Stock > 0

	for _, v := range raw.Variants {
		p.Variants = append(p.Variants, NormalizeVariant(v))
	}

	return p
}

// NormalizeVariant converts a raw backend variant into the canonical shape.
func NormalizeVariant(raw RawVariant) Variant {
	v := Variant{
		ID:  raw.Identifier(),
		SKU: raw.SKU,
	}
	if raw.Price != nil {
		v.Price = *raw.Price
	}
	if raw.CurrentStock != nil {
		v.Stock = *raw.CurrentStock
	} else if raw.Stock != nil {
		v.Stock = *raw.Stock
	}
	if raw.Color != nil {
		v.Color = firstNonEmpty(raw.Color.Name, raw.Color.Value)
	}
	if raw.Size != nil {
		v.Size = firstNonEmpty(raw.Size.Name, raw.Size.Value)
	}
	return v
}

// SelectImage picks a display image for a raw product using the precedence
// primary-flagged image, first image, scalar image field, placeholder.
func SelectImage(raw RawProduct) string {
	for _, img := range raw.Images {
		if img.IsPrimary {
			if url := img.BestURL(); url != "" {
				return url
			}
		}
	}
	for _, img := range raw.Images {
		if url := img.BestURL(); url != "" {
			return url
		}
	}
	if raw.Image != "" {
		return raw.Image
	}
	return PlaceholderImage
}

func discountPercent(raw RawProduct) int {
	if raw.Discount != nil && *raw.Discount > 0 {
		return int(*raw.Discount)
	}
	if raw.BasePrice != nil && raw.DiscountPrice != nil && *raw.BasePrice > 0 && *raw.DiscountPrice < *raw.BasePrice {
		return int(math.Round((1 - *raw.DiscountPrice / *raw.BasePrice) * 100))
	}
	return 0
}
