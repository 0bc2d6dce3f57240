package server

import (
	"net/http"

	"github.com/marketboost/storefront/internal/catalog"
)

type ProductHandler struct {
	catalog *catalog.Service
}

func NewProductHandler(cat *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: cat}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Products(r.Context()))
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, found := h.catalog.Product(r.Context(), productID)
	if !found {
		respondError(w, http.StatusNotFound, "not_found", "unknown product")
		return
	}
	respondJSON(w, http.StatusOK, product)
}
