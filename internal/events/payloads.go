package events

import "github.com/marketboost/storefront/internal/domain"

// ItemAddedEvent fires after an add, before the accompanying
// CartUpdatedEvent. Product and Quantity describe the add itself, even
// when it merged into an existing line.
type ItemAddedEvent struct {
	Product    domain.Product
	Quantity   int
	TotalItems int
}

func (ItemAddedEvent) EventName() string { return ItemAdded }

// ItemRemovedEvent carries the removed line as it was at removal time.
type ItemRemovedEvent struct {
	Item       domain.LineItem
	TotalItems int
}

func (ItemRemovedEvent) EventName() string { return ItemRemoved }

type QuantityUpdatedEvent struct {
	ProductID   int64
	OldQuantity int
	NewQuantity int
}

func (QuantityUpdatedEvent) EventName() string { return QuantityUpdated }

type CartClearedEvent struct{}

func (CartClearedEvent) EventName() string { return CartCleared }

// CartUpdatedEvent follows every mutation with the fresh snapshot.
type CartUpdatedEvent struct {
	Summary domain.Snapshot
}

func (CartUpdatedEvent) EventName() string { return CartUpdated }

// CartLoadedEvent fires once at construction when a persisted cart
// survived the load-time expiry filter.
type CartLoadedEvent struct {
	Summary domain.Snapshot
}

func (CartLoadedEvent) EventName() string { return CartLoaded }
