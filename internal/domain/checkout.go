package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// CheckoutItem is the minimal projection of a line item handed to the
// checkout flow: id, quantity and the unit price that was in effect.
type CheckoutItem struct {
	ProductID int64           `json:"id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
}

// CheckoutExport is the read-only hand-off to the (external) checkout
// flow. Producing it does not touch the cart.
type CheckoutExport struct {
	Items     []CheckoutItem  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
	Timestamp int64           `json:"timestamp"`
}

// NewCheckoutExport projects the given items at now.
func NewCheckoutExport(items []LineItem, total decimal.Decimal, now time.Time) CheckoutExport {
	exp := CheckoutExport{
		Items:     make([]CheckoutItem, 0, len(items)),
		Total:     total,
		Currency:  currency.USD.String(),
		Timestamp: now.UnixMilli(),
	}
	for _, it := range items {
		exp.Items = append(exp.Items, CheckoutItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return exp
}
