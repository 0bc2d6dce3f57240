// Package catalog resolves the product records the cart copies its
// metadata from. Products come from the WooCommerce REST API when it is
// reachable, the local sqlite catalog when it is not, and a static
// service list as the last resort so the storefront never shows zero
// services.
package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marketboost/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"
)

const (
	// cacheTTL matches the storefront's historical 5-minute product cache.
	cacheTTL = 5 * time.Minute

	// requestTimeout keeps the fallback fast when the API is down.
	requestTimeout = 4 * time.Second
)

// Client fetches products from the WooCommerce REST API. Concurrent
// cache misses collapse into one upstream request, and a circuit breaker
// stops hammering an API that keeps failing.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]domain.Product]
	sfg        singleflight.Group

	mu       sync.Mutex
	cached   []domain.Product
	cachedAt time.Time
}

// NewClient builds a client for baseURL (e.g. "https://example.com/wp-json/wc/v3").
// When consumerKey/consumerSecret are set they are sent as Basic auth,
// the way the production WooCommerce API expects.
func NewClient(baseURL, consumerKey, consumerSecret string) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	if consumerKey != "" {
		creds := consumerKey + ":" + consumerSecret
		c.authHeader = "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "woocommerce",
		Timeout: 30 * time.Second,
	})
	return c
}

// FetchProducts returns the product list, served from the in-process
// cache when it is fresh.
func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.Lock()
	if c.cached != nil && time.Since(c.cachedAt) < cacheTTL {
		products := c.cached
		c.mu.Unlock()
		return products, nil
	}
	c.mu.Unlock()

	// The fetch is shared by every collapsed caller, so it must not die
	// with the first caller's context. The client timeout still bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		return c.breaker.Execute(func() ([]domain.Product, error) {
			return c.fetch(fetchCtx)
		})
	})
	if err != nil {
		return nil, err
	}
	products := v.([]domain.Product)

	c.mu.Lock()
	c.cached = products
	c.cachedAt = time.Now()
	c.mu.Unlock()

	return products, nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build products request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("products request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("products request failed: status %d %s", resp.StatusCode, resp.Status)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("invalid products response: %w", err)
	}
	return products, nil
}
