// internal/domain/wishlist/normalizer.go
package wishlist

import (
	"github.com/darshanrathod27/rathod-mart-storefront/internal/domain/catalog"
)

// NormalizeEntries converts raw wishlist entries of either wire shape into
// canonical entries, dropping records without a resolvable product id and
// de-duplicating by product id. Nil input yields an empty result.
func NormalizeEntries(raw []RawEntry) []Entry {
	if len(raw) == 0 {
		return []Entry{}
	}
	entries := make([]Entry, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		entry := normalizeEntry(r)
		if entry.ProductID == "" || seen[entry.ProductID] {
			continue
		}
		seen[entry.ProductID] = true
		entries = append(entries, entry)
	}
	return entries
}

func normalizeEntry(r RawEntry) Entry {
	product := r.Product
	if product == nil {
		flat := catalog.RawProduct{
			MongoID:       r.MongoID,
			ID:            r.ID,
			Name:          r.Name,
			Title:         r.Title,
			Image:         r.Image,
			Images:        r.Images,
			Price:         r.Price,
			BasePrice:     r.BasePrice,
			DiscountPrice: r.DiscountPrice,
		}
		product = &flat
	}
	normalized := catalog.NormalizeProduct(*product)

	entry := Entry{
		ProductID: normalized.ID,
		Name:      normalized.Name,
		Image:     normalized.Image,
		Price:     normalized.Price,
	}
	if r.ProductID != "" {
		entry.ProductID = string(r.ProductID)
	}
	return entry
}
