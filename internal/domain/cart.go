package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Cart amounts travel as JSON numbers, matching what the storefront
	// pages and the stored cart records have always used.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category is one WooCommerce category label attached to a product.
type Category struct {
	ID   int64  `json:"id,omitempty" bson:"id,omitempty"`
	Name string `json:"name" bson:"name"`
}

// LineItem is one row in the cart: a distinct product and its quantity.
// Name, price and the other metadata are copied from the product at the
// time of the first add and never overwritten afterwards, so the cart
// keeps showing what the customer originally put in it.
type LineItem struct {
	ProductID  int64           `json:"id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"price"`
	ImageURL   string          `json:"image"`
	Slug       string          `json:"slug,omitempty"`
	SKU        string          `json:"sku"`
	Categories []Category      `json:"categories"`
	Quantity   int             `json:"quantity"`
	AddedAt    time.Time       `json:"addedAt"`
}

// LineTotal is UnitPrice multiplied by Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is a derived, read-only view of the cart, recomputed on demand.
// It is never persisted.
type Snapshot struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	IsEmpty    bool            `json:"isEmpty"`
}
