// Package view reflects the cart into the storefront's drawer, badge and
// toast. It subscribes to the store's events and pushes freshly rendered
// fragments to whatever surface is attached; it never owns cart state.
package view

import (
	"bytes"
	"context"
	"log"
	"sync"
	"time"

	"github.com/marketboost/storefront/internal/domain"
	"github.com/marketboost/storefront/internal/events"
	"github.com/marketboost/storefront/internal/store"
)

// toastTTL matches the 3-second auto-dismiss the site has always used.
const toastTTL = 3 * time.Second

// Surface receives rendered fragments. A nil surface means the current
// page has no cart container; renders are silently dropped, matching the
// page variants that never mounted a cart icon.
type Surface interface {
	Update(fragment, html string)
}

// CartView renders the drawer and badge from the store's snapshots and
// relays drawer interactions back into store operations.
type CartView struct {
	cart    *store.CartStore
	surface Surface

	mu         sync.Mutex
	open       bool
	toastTimer *time.Timer
}

// New wires the view to the store through bus. The initial badge and
// drawer render immediately so a restored cart is visible without
// waiting for the first mutation.
func New(cart *store.CartStore, bus *events.Bus, surface Surface) *CartView {
	v := &CartView{cart: cart, surface: surface}

	bus.Subscribe(events.ItemAdded, func(e events.Event) {
		v.refresh()
		if added, ok := e.(events.ItemAddedEvent); ok {
			v.showToast(added.Product.Name)
		}
	})
	bus.Subscribe(events.ItemRemoved, func(events.Event) { v.refresh() })
	bus.Subscribe(events.CartUpdated, func(events.Event) { v.refresh() })
	bus.Subscribe(events.CartLoaded, func(events.Event) { v.refresh() })

	v.refresh()
	return v
}

// IsOpen reports the drawer state.
func (v *CartView) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.open
}

// Open reveals the drawer after a fresh render. Already open: no-op.
func (v *CartView) Open() {
	v.mu.Lock()
	if v.open {
		v.mu.Unlock()
		return
	}
	v.open = true
	v.mu.Unlock()
	v.refresh()
}

// Close hides the drawer and restores page scrolling. Already closed:
// no-op.
func (v *CartView) Close() {
	v.mu.Lock()
	if !v.open {
		v.mu.Unlock()
		return
	}
	v.open = false
	v.mu.Unlock()
	v.refresh()
}

// Toggle flips the drawer state.
func (v *CartView) Toggle() {
	if v.IsOpen() {
		v.Close()
	} else {
		v.Open()
	}
}

// IncrementItem bumps the line's quantity by one.
func (v *CartView) IncrementItem(ctx context.Context, productID int64) {
	current := v.cart.GetItemQuantity(productID)
	if current == 0 {
		return
	}
	v.cart.UpdateQuantity(ctx, productID, current+1)
}

// DecrementItem lowers the line's quantity by one, with the drawer's
// floor of 1: at quantity 1 the button does nothing, removal is its own
// explicit action.
func (v *CartView) DecrementItem(ctx context.Context, productID int64) {
	current := v.cart.GetItemQuantity(productID)
	if current > 1 {
		v.cart.UpdateQuantity(ctx, productID, current-1)
	}
}

// RemoveItem removes the line outright, bypassing the quantity floor.
func (v *CartView) RemoveItem(ctx context.Context, productID int64) {
	v.cart.RemoveItem(ctx, productID)
}

// Checkout hands the cart off to the checkout flow. The cart is left
// intact; the real checkout is still to come.
func (v *CartView) Checkout() domain.CheckoutExport {
	export := v.cart.ExportForCheckout()
	log.Printf("checkout: %d items, total %s", len(export.Items), domain.FormatUSD(export.Total))
	return export
}

// BadgeHTML renders the item-count badge.
func (v *CartView) BadgeHTML() string {
	return v.render(FragmentBadge, v.cart.GetCartSummary())
}

// DrawerHTML renders the full drawer for the current snapshot.
func (v *CartView) DrawerHTML() string {
	v.mu.Lock()
	open := v.open
	v.mu.Unlock()

	data := struct {
		Open    bool
		Summary domain.Snapshot
		Bundles []domain.Bundle
	}{
		Open:    open,
		Summary: v.cart.GetCartSummary(),
		Bundles: v.cart.GetBundleSuggestions(),
	}
	return v.render(FragmentDrawer, data)
}

func (v *CartView) refresh() {
	v.push(FragmentBadge, v.BadgeHTML())
	v.push(FragmentDrawer, v.DrawerHTML())
}

// showToast replaces any toast currently showing and restarts the
// dismiss timer; rapid adds update the text rather than stacking.
func (v *CartView) showToast(productName string) {
	v.push(FragmentToast, v.render(FragmentToast, productName))

	v.mu.Lock()
	if v.toastTimer != nil {
		v.toastTimer.Stop()
	}
	v.toastTimer = time.AfterFunc(toastTTL, func() {
		v.push(FragmentToast, "")
	})
	v.mu.Unlock()
}

func (v *CartView) push(fragment, html string) {
	if v.surface == nil {
		return
	}
	v.surface.Update(fragment, html)
}

func (v *CartView) render(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("view: failed to render %s: %v", name, err)
		return ""
	}
	return buf.String()
}
