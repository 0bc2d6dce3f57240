package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketboost/storefront/internal/catalog"
	"github.com/marketboost/storefront/internal/domain"
	"github.com/marketboost/storefront/internal/events"
	"github.com/marketboost/storefront/internal/storage"
	"github.com/marketboost/storefront/internal/store"
	"github.com/marketboost/storefront/internal/view"
)

type memoryStorage struct {
	rec *domain.CartRecord
}

func (m *memoryStorage) Load(context.Context) (*domain.CartRecord, error) {
	if m.rec == nil {
		return nil, storage.ErrNotFound
	}
	return m.rec, nil
}

func (m *memoryStorage) Save(_ context.Context, rec domain.CartRecord) error {
	m.rec = &rec
	return nil
}

// newTestServer wires the whole stack on the static catalog, with rate
// limits high enough to stay out of the way.
func newTestServer(t *testing.T) (http.Handler, *store.CartStore) {
	t.Helper()
	bus := events.NewBus()
	cart := store.New(&memoryStorage{}, bus, nil)
	cat := catalog.NewService(nil, nil)
	hub := view.NewHub()
	v := view.New(cart, bus, hub)
	return New(cart, cat, v, hub, Options{RateLimit: 10000, RateBurst: 10000}), cart
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAddItem(t *testing.T) {
	h, cart := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 2, Quantity: 2})
	require.Equal(t, http.StatusCreated, rec.Code)

	var summary domain.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalItems)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "SEO Optimization", summary.Items[0].Name)

	assert.Equal(t, 2, cart.GetItemQuantity(2))
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	h, cart := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, cart.GetItemQuantity(1))
}

func TestAddItem_Validation(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name string
		body any
		code string
	}{
		{"missing product id", AddItemRequestDTO{Quantity: 1}, "invalid_product_id"},
		{"negative quantity", AddItemRequestDTO{ProductID: 1, Quantity: -1}, "invalid_quantity"},
		{"excessive quantity", AddItemRequestDTO{ProductID: 1, Quantity: 100}, "invalid_quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}

	rec := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 404, Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartLifecycleOverHTTP(t *testing.T) {
	h, cart := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 2, Quantity: 1})
	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 5, Quantity: 2})

	rec := doJSON(t, h, http.MethodGet, "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary domain.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 3, summary.TotalItems)

	rec = doJSON(t, h, http.MethodPut, "/api/v1/cart/items/5", UpdateQuantityRequestDTO{Quantity: 4})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, cart.GetItemQuantity(5))

	// Quantity 0 removes the line.
	rec = doJSON(t, h, http.MethodPut, "/api/v1/cart/items/5", UpdateQuantityRequestDTO{Quantity: 0})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, cart.IsInCart(5))

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/cart/items/2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/cart/items/2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/v1/cart/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, cart.GetCartSummary().IsEmpty)
}

func TestUpdateQuantity_BadProductID(t *testing.T) {
	h, _ := newTestServer(t)
	rec := doJSON(t, h, http.MethodPut, "/api/v1/cart/items/abc", UpdateQuantityRequestDTO{Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBundles(t *testing.T) {
	h, _ := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 2, Quantity: 1})

	rec := doJSON(t, h, http.MethodGet, "/api/v1/cart/bundles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var bundles []domain.Bundle
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&bundles))
	ids := make([]string, 0, len(bundles))
	for _, b := range bundles {
		ids = append(ids, b.ID)
	}
	assert.ElementsMatch(t, []string{"seo-content", "ppc-seo"}, ids)
}

func TestExportForCheckout(t *testing.T) {
	h, _ := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 2, Quantity: 1})

	rec := doJSON(t, h, http.MethodGet, "/api/v1/cart/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var export domain.CheckoutExport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&export))
	assert.Equal(t, "USD", export.Currency)
	require.Len(t, export.Items, 1)
	assert.Equal(t, int64(2), export.Items[0].ProductID)
	assert.NotZero(t, export.Timestamp)
}

func TestListProducts(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/api/v1/products/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	assert.Len(t, products, 6)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/products/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/products/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDrawerEndpoints(t *testing.T) {
	h, _ := newTestServer(t)

	rec := doJSON(t, h, http.MethodGet, "/cart/drawer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Your cart is empty")

	rec = doJSON(t, h, http.MethodPost, "/cart/drawer/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"open":true}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/cart/drawer", nil)
	assert.Contains(t, rec.Body.String(), "cart-drawer open")

	rec = doJSON(t, h, http.MethodPost, "/cart/drawer/toggle", nil)
	assert.JSONEq(t, `{"open":false}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/cart/badge", nil)
	assert.Contains(t, rec.Body.String(), "cart-count")
}

func TestDrawerQuantityControls(t *testing.T) {
	h, cart := newTestServer(t)

	doJSON(t, h, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{ProductID: 1, Quantity: 1})

	doJSON(t, h, http.MethodPost, "/cart/items/1/increment", nil)
	assert.Equal(t, 2, cart.GetItemQuantity(1))

	doJSON(t, h, http.MethodPost, "/cart/items/1/decrement", nil)
	doJSON(t, h, http.MethodPost, "/cart/items/1/decrement", nil)
	assert.Equal(t, 1, cart.GetItemQuantity(1), "drawer decrement floors at 1")

	doJSON(t, h, http.MethodPost, "/cart/items/1/remove", nil)
	assert.False(t, cart.IsInCart(1))
}

func TestRateLimit(t *testing.T) {
	bus := events.NewBus()
	cart := store.New(&memoryStorage{}, bus, nil)
	cat := catalog.NewService(nil, nil)
	hub := view.NewHub()
	v := view.New(cart, bus, hub)
	h := New(cart, cat, v, hub, Options{RateLimit: 1, RateBurst: 2})

	var limited bool
	for i := 0; i < 5; i++ {
		rec := doJSON(t, h, http.MethodGet, "/health", nil)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited)
}

func TestWebsocketPushesFragments(t *testing.T) {
	h, cart := newTestServer(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The seed frames arrive first: badge then drawer.
	var msg view.FragmentMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, view.FragmentBadge, msg.Fragment)
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, view.FragmentDrawer, msg.Fragment)

	cart.AddItem(context.Background(), domainProduct(), 1)

	// A mutation pushes toast, badge and drawer frames; collect until the
	// drawer shows the item.
	deadline := 0
	for {
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.Fragment == view.FragmentDrawer && strings.Contains(msg.HTML, "SEO Optimization") {
			break
		}
		deadline++
		require.Less(t, deadline, 10, "drawer update never arrived")
	}
}

func domainProduct() domain.Product {
	products := catalog.StaticProducts()
	for _, p := range products {
		if p.Name == "SEO Optimization" {
			return p
		}
	}
	return products[0]
}
