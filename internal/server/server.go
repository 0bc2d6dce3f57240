// Package server assembles the HTTP surface: the JSON cart API, the
// catalog endpoints, the rendered drawer fragments and the websocket
// that keeps open pages in sync.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/marketboost/storefront/internal/catalog"
	"github.com/marketboost/storefront/internal/store"
	"github.com/marketboost/storefront/internal/view"
)

const requestTimeout = 30 * time.Second

type Options struct {
	AllowedOrigins []string
	RateLimit      rate.Limit
	RateBurst      int
}

func defaultOptions(opts Options) Options {
	if opts.RateLimit == 0 {
		opts.RateLimit = 20
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 40
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return opts
}

// New builds the full handler chain.
func New(cart *store.CartStore, cat *catalog.Service, v *view.CartView, hub *view.Hub, opts Options) http.Handler {
	opts = defaultOptions(opts)

	cartHandler := NewCartHandler(cart, cat)
	productHandler := NewProductHandler(cat)
	viewHandler := NewViewHandler(v, hub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(RateLimitMiddleware(opts.RateLimit, opts.RateBurst))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Get("/bundles", cartHandler.GetBundles)
			r.Get("/export", cartHandler.ExportForCheckout)
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/{product_id}", productHandler.GetProduct)
		})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/drawer", viewHandler.GetDrawer)
		r.Get("/badge", viewHandler.GetBadge)
		r.Post("/drawer/open", viewHandler.OpenDrawer)
		r.Post("/drawer/close", viewHandler.CloseDrawer)
		r.Post("/drawer/toggle", viewHandler.ToggleDrawer)
		r.Post("/items/{product_id}/increment", viewHandler.IncrementItem)
		r.Post("/items/{product_id}/decrement", viewHandler.DecrementItem)
		r.Post("/items/{product_id}/remove", viewHandler.RemoveItem)
		r.Post("/checkout", viewHandler.Checkout)
	})

	r.Get("/ws", viewHandler.ServeWS)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
	})

	return otelhttp.NewHandler(c.Handler(r), "storefront")
}
