package store

import (
	"context"
	"log"
	"time"
)

// syncInterval matches the 30-second timer the storefront has always run.
const syncInterval = 30 * time.Second

// SyncLoop periodically pushes the cart to the commerce backend while it
// has contents. The backend cart API requires customer authentication,
// which the site does not have yet, so each tick only logs; there is no
// retry or backoff to tune until a real call exists.
//
// TODO: call the WooCommerce cart endpoints once customer accounts land.
func (s *CartStore) SyncLoop(ctx context.Context) {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			hasItems := len(s.items) > 0
			s.mu.Unlock()
			if hasItems {
				s.syncWithBackend()
			}
		}
	}
}

func (s *CartStore) syncWithBackend() {
	log.Println("cart: backend sync not implemented yet")
}
