package catalog

import (
	"github.com/marketboost/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// StaticProducts is the hardcoded service lineup the services page falls
// back to, so it never renders "0 services" even with every other source
// down.
func StaticProducts() []domain.Product {
	services := []struct {
		id          int64
		name        string
		price       int64
		description string
		category    string
	}{
		{1, "Social Media Management", 999,
			"Manage your social media presence with expert content creation and community engagement.",
			"Social Media"},
		{2, "SEO Optimization", 1299,
			"Improve your website's visibility in search engine results with comprehensive SEO strategies.",
			"SEO"},
		{3, "Content Creation", 699,
			"Engaging blog posts, articles, and website copy to attract and convert customers.",
			"Content"},
		{4, "Email Marketing Campaign", 799,
			"Targeted email campaigns with professional design, compelling copy, and automation.",
			"Email"},
		{5, "PPC Management", 1199,
			"Professional Google Ads and social media advertising management to maximize ROI.",
			"PPC"},
		{6, "Web Design & Development", 2499,
			"Professional website design and development optimized for conversions and user experience.",
			"Web Development"},
	}

	products := make([]domain.Product, 0, len(services))
	for _, s := range services {
		products = append(products, domain.Product{
			ID:               s.id,
			Name:             s.name,
			Price:            domain.Price{Decimal: decimal.NewFromInt(s.price)},
			ShortDescription: s.description,
			Description:      s.description,
			Categories:       []domain.Category{{Name: s.category}},
		})
	}
	return products
}
