package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marketboost/storefront/internal/catalog"
	"github.com/marketboost/storefront/internal/store"
)

// CartHandler exposes the cart over JSON. Product metadata is resolved
// through the catalog so clients only ever send ids and quantities.
type CartHandler struct {
	cart    *store.CartStore
	catalog *catalog.Service
}

func NewCartHandler(cart *store.CartStore, cat *catalog.Service) *CartHandler {
	return &CartHandler{cart: cart, catalog: cat}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.GetCartSummary())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, ok := h.catalog.Product(r.Context(), req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "not_found", "unknown product")
		return
	}

	h.cart.AddItem(r.Context(), product, req.Quantity)
	respondJSON(w, http.StatusCreated, h.cart.GetCartSummary())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	if !h.cart.UpdateQuantity(r.Context(), productID, req.Quantity) {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cart.GetCartSummary())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	if _, removed := h.cart.RemoveItem(r.Context(), productID); !removed {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cart.GetCartSummary())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart(r.Context())
	respondJSON(w, http.StatusOK, h.cart.GetCartSummary())
}

func (h *CartHandler) GetBundles(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.GetBundleSuggestions())
}

func (h *CartHandler) ExportForCheckout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.ExportForCheckout())
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
