// Package events carries cart change notifications between the store and
// its observers. Delivery is synchronous and in subscription order: every
// handler has run before the emitting mutation returns.
package events

import (
	"log"
	"sync"
)

// Event names, matching the notification contract the storefront pages
// already listen for.
const (
	ItemAdded       = "itemAdded"
	ItemRemoved     = "itemRemoved"
	QuantityUpdated = "quantityUpdated"
	CartCleared     = "cartCleared"
	CartUpdated     = "cartUpdated"
	CartLoaded      = "cartLoaded"
)

// Event is a named notification payload.
type Event interface {
	EventName() string
}

// Handler receives events for one event name.
type Handler func(Event)

// Bus is a synchronous publisher. A panicking handler is logged and
// skipped; the remaining handlers and the emitting operation are not
// affected.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers h for events named name. Handlers run in
// registration order.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Emit delivers e to every handler subscribed to its name, in order,
// on the calling goroutine.
func (b *Bus) Emit(e Event) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[e.EventName()]))
	copy(hs, b.handlers[e.EventName()])
	b.mu.RUnlock()

	for _, h := range hs {
		call(h, e)
	}
}

func call(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("events: handler for %s panicked: %v", e.EventName(), r)
		}
	}()
	h(e)
}
