package domain

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"
)

// Price tolerates both forms the catalog produces: the WooCommerce API
// returns prices as numeric strings ("1299.00"), the static fallback list
// uses plain numbers. Anything unparseable becomes zero, which is how the
// storefront has always treated a missing price.
type Price struct {
	decimal.Decimal
}

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		p.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.Decimal = decimal.Zero
		return nil
	}
	p.Decimal = d
	return nil
}

// ProductImage is one entry of a product's image gallery.
type ProductImage struct {
	Src string `json:"src"`
}

// Product is the catalog collaborator's record, in the WooCommerce REST
// shape the storefront consumes. Optional fields stay empty when the API
// omits them.
type Product struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	Price            Price          `json:"price"`
	ShortDescription string         `json:"short_description,omitempty"`
	Description      string         `json:"description,omitempty"`
	Slug             string         `json:"slug,omitempty"`
	SKU              string         `json:"sku,omitempty"`
	Images           []ProductImage `json:"images,omitempty"`
	Categories       []Category     `json:"categories"`
}

// ImageURL returns the first gallery image, or "" when the product has none.
func (p Product) ImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].Src
}
