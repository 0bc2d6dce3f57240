package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartRecord is the persisted cart shape. It mirrors the JSON the
// storefront's previous cart wrote to browser storage under the
// "marketboost_cart" key, so carts saved before the rewrite still load:
//
//	{"items":[{"id":1,"name":"...","price":1299,...,"addedAt":<epoch-ms>}],
//	 "lastUpdated":<epoch-ms>}
//
// Timestamps are epoch milliseconds and prices are plain JSON numbers.
type CartRecord struct {
	Items       []RecordItem `json:"items" bson:"items"`
	LastUpdated int64        `json:"lastUpdated" bson:"lastUpdated"`
}

// RecordItem is one stored line item.
type RecordItem struct {
	ID         int64      `json:"id" bson:"id"`
	Name       string     `json:"name" bson:"name"`
	Price      float64    `json:"price" bson:"price"`
	Image      string     `json:"image" bson:"image"`
	Slug       string     `json:"slug,omitempty" bson:"slug,omitempty"`
	Quantity   int        `json:"quantity" bson:"quantity"`
	SKU        string     `json:"sku" bson:"sku"`
	Categories []Category `json:"categories" bson:"categories"`
	AddedAt    int64      `json:"addedAt" bson:"addedAt"`
}

// NewCartRecord builds the persisted form of the given items, stamped at now.
func NewCartRecord(items []LineItem, now time.Time) CartRecord {
	rec := CartRecord{
		Items:       make([]RecordItem, 0, len(items)),
		LastUpdated: now.UnixMilli(),
	}
	for _, it := range items {
		cats := it.Categories
		if cats == nil {
			cats = []Category{}
		}
		rec.Items = append(rec.Items, RecordItem{
			ID:         it.ProductID,
			Name:       it.Name,
			Price:      it.UnitPrice.InexactFloat64(),
			Image:      it.ImageURL,
			Slug:       it.Slug,
			Quantity:   it.Quantity,
			SKU:        it.SKU,
			Categories: cats,
			AddedAt:    it.AddedAt.UnixMilli(),
		})
	}
	return rec
}

// LineItems converts the stored form back into line items.
func (r CartRecord) LineItems() []LineItem {
	items := make([]LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, LineItem{
			ProductID:  it.ID,
			Name:       it.Name,
			UnitPrice:  decimal.NewFromFloat(it.Price),
			ImageURL:   it.Image,
			Slug:       it.Slug,
			SKU:        it.SKU,
			Categories: it.Categories,
			Quantity:   it.Quantity,
			AddedAt:    time.UnixMilli(it.AddedAt),
		})
	}
	return items
}
