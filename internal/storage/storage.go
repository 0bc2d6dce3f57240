// Package storage persists the cart record under one fixed key. Every
// write replaces the whole record (last writer wins); concurrent writers
// against the same key are a documented hazard, not something the
// backends arbitrate.
package storage

import (
	"context"
	"errors"

	"github.com/marketboost/storefront/internal/domain"
)

// Key is the single durable-storage key the cart lives under. It matches
// the browser-storage key the site has used since launch, so backends
// that proxy existing stores keep reading old carts.
const Key = "marketboost_cart"

var ErrNotFound = errors.New("cart record not found")

// Storage reads and replaces the cart record.
type Storage interface {
	Load(ctx context.Context) (*domain.CartRecord, error)
	Save(ctx context.Context, rec domain.CartRecord) error
}
