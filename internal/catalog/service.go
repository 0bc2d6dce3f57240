package catalog

import (
	"context"
	"log"

	"github.com/marketboost/storefront/internal/domain"
)

// Service resolves products through the fallback chain: live API, local
// sqlite catalog, static list. It never fails; a page with a degraded
// catalog beats a page with none.
type Service struct {
	client *Client     // nil when no API is configured
	repo   *Repository // nil when no local catalog is configured
}

func NewService(client *Client, repo *Repository) *Service {
	return &Service{client: client, repo: repo}
}

// Products returns the full catalog from the best available source.
func (s *Service) Products(ctx context.Context) []domain.Product {
	if s.client != nil {
		products, err := s.client.FetchProducts(ctx)
		if err == nil && len(products) > 0 {
			return products
		}
		log.Printf("catalog: API unavailable, falling back: %v", err)
	}

	if s.repo != nil {
		products, err := s.repo.GetAllProducts(ctx)
		if err == nil && len(products) > 0 {
			return products
		}
		if err != nil {
			log.Printf("catalog: local catalog unavailable, falling back: %v", err)
		}
	}

	return StaticProducts()
}

// Product looks up one product by id across the same fallback chain.
func (s *Service) Product(ctx context.Context, id int64) (domain.Product, bool) {
	for _, p := range s.Products(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}
