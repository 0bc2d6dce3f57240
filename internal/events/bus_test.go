package events

import (
	"testing"

	"github.com/marketboost/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_InSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.Subscribe(CartCleared, func(Event) {
			order = append(order, i)
		})
	}

	bus.Emit(CartClearedEvent{})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestEmit_SynchronousBeforeReturn(t *testing.T) {
	bus := NewBus()

	delivered := false
	bus.Subscribe(ItemAdded, func(Event) { delivered = true })

	bus.Emit(ItemAddedEvent{Quantity: 1})
	assert.True(t, delivered, "handler must run before Emit returns")
}

func TestEmit_PanickingHandlerIsIsolated(t *testing.T) {
	bus := NewBus()

	var ran []string
	bus.Subscribe(CartUpdated, func(Event) { ran = append(ran, "first") })
	bus.Subscribe(CartUpdated, func(Event) { panic("boom") })
	bus.Subscribe(CartUpdated, func(Event) { ran = append(ran, "third") })

	require.NotPanics(t, func() {
		bus.Emit(CartUpdatedEvent{})
	})
	assert.Equal(t, []string{"first", "third"}, ran)
}

func TestEmit_OnlyMatchingNameReceives(t *testing.T) {
	bus := NewBus()

	added, removed := 0, 0
	bus.Subscribe(ItemAdded, func(Event) { added++ })
	bus.Subscribe(ItemRemoved, func(Event) { removed++ })

	bus.Emit(ItemAddedEvent{Product: domain.Product{ID: 1}, Quantity: 1})

	assert.Equal(t, 1, added)
	assert.Equal(t, 0, removed)
}

func TestEmit_TypedPayloadReachesHandler(t *testing.T) {
	bus := NewBus()

	var got ItemRemovedEvent
	bus.Subscribe(ItemRemoved, func(e Event) {
		var ok bool
		got, ok = e.(ItemRemovedEvent)
		require.True(t, ok)
	})

	bus.Emit(ItemRemovedEvent{
		Item:       domain.LineItem{ProductID: 7, Name: "SEO Optimization"},
		TotalItems: 2,
	})

	assert.Equal(t, int64(7), got.Item.ProductID)
	assert.Equal(t, 2, got.TotalItems)
}

func TestEmit_NoSubscribersIsNoOp(t *testing.T) {
	bus := NewBus()
	require.NotPanics(t, func() { bus.Emit(CartClearedEvent{}) })
}
