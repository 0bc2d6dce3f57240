// Package store owns the canonical cart state: mutations, persistence
// and change notification. Everything else (the drawer view, the HTTP
// handlers) observes it through the event bus or its read methods.
package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/marketboost/storefront/internal/domain"
	"github.com/marketboost/storefront/internal/events"
	"github.com/marketboost/storefront/internal/storage"
	"github.com/shopspring/decimal"
)

const (
	// ItemTTL is how long a line item survives between sessions. Older
	// items are dropped when a persisted cart is loaded; there is no
	// active sweep.
	ItemTTL = 7 * 24 * time.Hour

	// storageTimeout bounds each persistence call.
	storageTimeout = 5 * time.Second
)

// CartStore is the single source of truth for the cart. All methods are
// safe for concurrent use; each mutation persists the full record and
// delivers its notifications before returning.
type CartStore struct {
	mu    sync.Mutex
	items []domain.LineItem

	storage storage.Storage
	bus     *events.Bus
	tracker Tracker

	now func() time.Time
}

// New builds a store backed by st, publishing on bus. The persisted cart
// is loaded immediately: unreadable or corrupt records fall back to an
// empty cart, expired items are dropped, and a cartLoaded event fires if
// anything survived. A nil tracker logs events instead of dropping them.
func New(st storage.Storage, bus *events.Bus, tracker Tracker) *CartStore {
	if tracker == nil {
		tracker = LogTracker{}
	}
	s := &CartStore{
		storage: st,
		bus:     bus,
		tracker: tracker,
		now:     time.Now,
	}
	s.loadFromStorage()
	return s
}

func (s *CartStore) loadFromStorage() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	rec, err := s.storage.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		// Failure is absorbed, not propagated: the session starts empty.
		log.Printf("cart: failed to load from storage: %v", err)
		return
	}

	cutoff := s.now().Add(-ItemTTL)
	for _, it := range rec.LineItems() {
		if it.AddedAt.After(cutoff) {
			s.items = append(s.items, it)
		}
	}

	if len(s.items) > 0 {
		s.bus.Emit(events.CartLoadedEvent{Summary: s.snapshot()})
	}
}

// AddItem merges quantity into an existing line for the same product, or
// appends a new line stamped with the add time. Metadata is first-write-
// wins: a repeat add never overwrites the stored name or price. The
// quantity delta is applied as given; callers are expected to send
// positive values, but a negative delta is not rejected (observed
// behavior of the original cart, kept deliberately).
func (s *CartStore) AddItem(ctx context.Context, product domain.Product, quantity int) {
	s.mu.Lock()
	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		cats := product.Categories
		if cats == nil {
			cats = []domain.Category{}
		}
		s.items = append(s.items, domain.LineItem{
			ProductID:  product.ID,
			Name:       product.Name,
			UnitPrice:  product.Price.Decimal,
			ImageURL:   product.ImageURL(),
			Slug:       product.Slug,
			SKU:        product.SKU,
			Categories: append([]domain.Category(nil), cats...),
			Quantity:   quantity,
			AddedAt:    s.now(),
		})
	}
	total := s.totalItemsLocked()
	s.mu.Unlock()

	s.persist(ctx)
	s.bus.Emit(events.ItemAddedEvent{Product: product, Quantity: quantity, TotalItems: total})
	s.bus.Emit(events.CartUpdatedEvent{Summary: s.snapshot()})

	s.tracker.Track("add_to_cart", map[string]any{
		"item_id":   product.ID,
		"item_name": product.Name,
		"price":     product.Price.Decimal,
		"quantity":  quantity,
		"currency":  "USD",
		"value":     product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	})
}

// RemoveItem deletes the line for productID. When the id is absent it is
// a no-op: nothing persists, nothing fires, and ok is false.
func (s *CartStore) RemoveItem(ctx context.Context, productID int64) (domain.LineItem, bool) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return domain.LineItem{}, false
	}
	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	total := s.totalItemsLocked()
	s.mu.Unlock()

	s.persist(ctx)
	s.bus.Emit(events.ItemRemovedEvent{Item: removed, TotalItems: total})
	s.bus.Emit(events.CartUpdatedEvent{Summary: s.snapshot()})

	s.tracker.Track("remove_from_cart", map[string]any{
		"item_id":   removed.ProductID,
		"item_name": removed.Name,
		"price":     removed.UnitPrice,
		"quantity":  removed.Quantity,
		"currency":  "USD",
		"value":     removed.LineTotal(),
	})

	return removed, true
}

// UpdateQuantity sets the line's quantity. Zero delegates to RemoveItem,
// so an item with quantity 0 never exists. Negative quantities and
// unknown ids are rejected with ok=false and no events.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) bool {
	if quantity == 0 {
		_, ok := s.RemoveItem(ctx, productID)
		return ok
	}

	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 || quantity < 0 {
		s.mu.Unlock()
		return false
	}
	old := s.items[i].Quantity
	s.items[i].Quantity = quantity
	s.mu.Unlock()

	s.persist(ctx)
	s.bus.Emit(events.QuantityUpdatedEvent{ProductID: productID, OldQuantity: old, NewQuantity: quantity})
	s.bus.Emit(events.CartUpdatedEvent{Summary: s.snapshot()})
	return true
}

// ClearCart empties the cart. The empty record still persists, but the
// cartCleared/cartUpdated pair fires only when there was something to
// clear, so an already-empty cart causes no re-renders.
func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	wasEmpty := len(s.items) == 0
	s.items = nil
	s.mu.Unlock()

	s.persist(ctx)
	if !wasEmpty {
		s.bus.Emit(events.CartClearedEvent{})
		s.bus.Emit(events.CartUpdatedEvent{Summary: s.snapshot()})
	}
}

// GetTotal returns the subtotal over all lines.
func (s *CartStore) GetTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// GetTotalItems returns the sum of all line quantities.
func (s *CartStore) GetTotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalItemsLocked()
}

// GetCartSummary returns the derived snapshot of the current state.
func (s *CartStore) GetCartSummary() domain.Snapshot {
	return s.snapshot()
}

// IsInCart reports whether the product has a line item.
func (s *CartStore) IsInCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// GetItemQuantity returns the line's quantity, or 0 when absent.
func (s *CartStore) GetItemQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// GetBundleSuggestions returns the bundles whose required categories
// overlap the categories currently in the cart. Pure read.
func (s *CartStore) GetBundleSuggestions() []domain.Bundle {
	s.mu.Lock()
	inCart := make(map[string]bool)
	for _, it := range s.items {
		for _, cat := range it.Categories {
			inCart[cat.Name] = true
		}
	}
	s.mu.Unlock()

	suggestions := []domain.Bundle{}
	for _, b := range domain.Bundles {
		for _, required := range b.RequiredCategories {
			if inCart[required] {
				suggestions = append(suggestions, b)
				break
			}
		}
	}
	return suggestions
}

// Recommendations returns the distinct category ids across the cart's
// items, in first-seen order. This is the seed for category-based
// cross-sell; resolving ids to actual products is the catalog's job.
func (s *CartStore) Recommendations() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool)
	ids := []int64{}
	for _, it := range s.items {
		for _, cat := range it.Categories {
			if !seen[cat.ID] {
				seen[cat.ID] = true
				ids = append(ids, cat.ID)
			}
		}
	}
	return ids
}

// ExportForCheckout projects the cart for the external checkout flow.
// The cart itself is untouched; completing checkout is somebody else's
// job.
func (s *CartStore) ExportForCheckout() domain.CheckoutExport {
	s.mu.Lock()
	items := append([]domain.LineItem(nil), s.items...)
	total := s.totalLocked()
	s.mu.Unlock()
	return domain.NewCheckoutExport(items, total, s.now())
}

func (s *CartStore) persist(ctx context.Context) {
	s.mu.Lock()
	rec := domain.NewCartRecord(s.items, s.now())
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()
	if err := s.storage.Save(ctx, rec); err != nil {
		// Not retried and not surfaced: the cart keeps working
		// in-memory for the rest of the session.
		log.Printf("cart: failed to save to storage: %v", err)
	}
}

func (s *CartStore) snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		Items:      append([]domain.LineItem{}, s.items...),
		TotalItems: s.totalItemsLocked(),
		Subtotal:   s.totalLocked(),
		IsEmpty:    len(s.items) == 0,
	}
}

func (s *CartStore) indexOf(productID int64) int {
	for i, it := range s.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartStore) totalItemsLocked() int {
	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

func (s *CartStore) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.LineTotal())
	}
	return total
}
