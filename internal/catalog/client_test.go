package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/marketboost/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wooResponse mimics the WooCommerce /products payload, prices as
// numeric strings.
const wooResponse = `[
	{"id": 2, "name": "SEO Optimization", "price": "1299.00", "slug": "seo-optimization",
	 "images": [{"src": "https://cdn.example.com/seo.jpg"}],
	 "categories": [{"id": 11, "name": "SEO"}]},
	{"id": 5, "name": "PPC Management", "price": "1199.00",
	 "categories": [{"id": 12, "name": "PPC"}]}
]`

func TestFetchProducts_ParsesWooCommerceShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(wooResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")
	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, int64(2), products[0].ID)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(1299)))
	assert.Equal(t, "https://cdn.example.com/seo.jpg", products[0].ImageURL())
	assert.Equal(t, "SEO", products[0].Categories[0].Name)
	assert.Equal(t, "", products[1].ImageURL())
}

func TestFetchProducts_SendsBasicAuthWhenConfigured(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "ck_test", "cs_test")
	_, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic Y2tfdGVzdDpjc190ZXN0", gotAuth)
}

func TestFetchProducts_CachesForFiveMinutes(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(wooResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")
	ctx := context.Background()

	_, err := client.FetchProducts(ctx)
	require.NoError(t, err)
	_, err = client.FetchProducts(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchProducts_SurvivesCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(wooResponse))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")

	// The upstream fetch fills a shared cache, so one caller backing out
	// must not poison the result for everyone collapsed onto it.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, err := client.FetchProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFetchProducts_NonOKStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")
	_, err := client.FetchProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestFetchProducts_InvalidPayloadFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "not an array"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")
	_, err := client.FetchProducts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid products response")
}

func TestFetchProducts_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", "")
	ctx := context.Background()

	// gobreaker's default trip threshold is 5 consecutive failures.
	for i := 0; i < 6; i++ {
		_, err := client.FetchProducts(ctx)
		require.Error(t, err)
	}

	// Once open, calls are refused without reaching upstream.
	_, err := client.FetchProducts(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	var fallbackProducts []domain.Product
	svc := NewService(client, nil)
	fallbackProducts = svc.Products(ctx)
	assert.Len(t, fallbackProducts, len(StaticProducts()))
}
