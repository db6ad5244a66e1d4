// internal/domain/catalog/entity.go
package catalog

import (
	"bytes"
	"encoding/json"
)

// PlaceholderImage is the sentinel URL used when a product carries no usable image.
const PlaceholderImage = "/images/placeholder.png"

// FlexID decodes a JSON identifier that the backend serves either as a string
// (Mongo ObjectID hex) or as a bare number. Decoded value is always a string.
type FlexID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*f = ""
		return nil
	}
	*f = FlexID(n.String())
	return nil
}

// RawOption decodes a variant option (color, size) that arrives either as a
// scalar ("Red") or as an object ({"name": "Red", "value": "#f00"}).
type RawOption struct {
	Name  string
	Value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *RawOption) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		o.Name = s
		return nil
	}
	var obj struct {
		Name      string `json:"name"`
		ColorName string `json:"colorName"`
		SizeName  string `json:"sizeName"`
		Value     string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil
	}
	o.Name = firstNonEmpty(obj.Name, obj.ColorName, obj.SizeName)
	o.Value = obj.Value
	return nil
}

// RawImage is a product image record as served by the backend.
type RawImage struct {
	URL       string `json:"url"`
	ImageURL  string `json:"imageUrl"`
	FullURL   string `json:"fullUrl"`
	AltText   string `json:"altText"`
	IsPrimary bool   `json:"isPrimary"`
	VariantID FlexID `json:"variantId"`
}

// BestURL returns the first populated URL field of the image record.
func (i RawImage) BestURL() string {
	return firstNonEmpty(i.FullURL, i.URL, i.ImageURL)
}

// RawVariant is a product variant as served by the backend.
type RawVariant struct {
	MongoID      FlexID     `json:"_id"`
	ID           FlexID     `json:"id"`
	SKU          string     `json:"sku"`
	Price        *float64   `json:"price"`
	Stock        *int       `json:"stock"`
	CurrentStock *int       `json:"currentStock"`
	Color        *RawOption `json:"color"`
	Size         *RawOption `json:"size"`
}

// Identifier resolves the variant id across the two id spellings the backend uses.
func (v RawVariant) Identifier() string {
	return firstNonEmpty(string(v.ID), string(v.MongoID))
}

// RawProduct is a product as served by the backend, before normalization.
type RawProduct struct {
	MongoID       FlexID       `json:"_id"`
	ID            FlexID       `json:"id"`
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	Image         string       `json:"image"`
	Images        []RawImage   `json:"images"`
	BasePrice     *float64     `json:"basePrice"`
	DiscountPrice *float64     `json:"discountPrice"`
	Price         *float64     `json:"price"`
	Discount      *float64     `json:"discount"`
	TotalStock    *int         `json:"totalStock"`
	Stock         *int         `json:"stock"`
	Variants      []RawVariant `json:"variants"`
}

// Identifier resolves the product id across the two id spellings the backend uses.
func (p RawProduct) Identifier() string {
	return firstNonEmpty(string(p.ID), string(p.MongoID))
}

// Variant is the canonical variant shape consumed by the cart and wishlist engines.
type Variant struct {
	ID    string  `json:"id"`
	SKU   string  `json:"sku,omitempty"`
	Price float64 `json:"price"` // 0 means no override, product price applies
	Stock int     `json:"stock"`
	Color string  `json:"color,omitempty"`
	Size  string  `json:"size,omitempty"`
}

// Product is the canonical product shape consumed by the engines and the UI.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Image           string    `json:"image"`
	BasePrice       float64   `json:"basePrice"`
	DiscountPrice   float64   `json:"discountPrice,omitempty"` // 0 when not discounted
	Price           float64   `json:"price"`                   // effective selling price
	OriginalPrice   float64   `json:"originalPrice,omitempty"` // base price when discounted
	DiscountPercent int       `json:"discountPercent"`
	Stock           int       `json:"stock"`
	InStock         bool      `json:"inStock"`
	Variants        []Variant `json:"variants,omitempty"`
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
