package store

import "log"

// Tracker receives analytics events for cart mutations in the GA4 shape
// the site's pages report (add_to_cart, remove_from_cart).
type Tracker interface {
	Track(event string, payload map[string]any)
}

// LogTracker is the default Tracker; it only logs.
type LogTracker struct{}

func (LogTracker) Track(event string, payload map[string]any) {
	log.Printf("cart event: %s %v", event, payload)
}
