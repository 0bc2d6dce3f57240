package domain

// Bundle is a predefined cross-sell pairing surfaced when the cart holds
// an item from one of its required categories.
type Bundle struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Discount           float64  `json:"discount"`
	RequiredCategories []string `json:"requiredCategories"`
}

// Bundles is the fixed table of service combinations the agency promotes.
var Bundles = []Bundle{
	{
		ID:                 "seo-content",
		Name:               "SEO + Content Bundle",
		Description:        "Save 15% when combining SEO optimization with content creation",
		Discount:           0.15,
		RequiredCategories: []string{"SEO", "Content"},
	},
	{
		ID:                 "social-email",
		Name:               "Social + Email Bundle",
		Description:        "Complete engagement package with 20% savings",
		Discount:           0.20,
		RequiredCategories: []string{"Social Media", "Email Marketing"},
	},
	{
		ID:                 "ppc-seo",
		Name:               "PPC + SEO Combo",
		Description:        "Dominate search results with 10% bundle discount",
		Discount:           0.10,
		RequiredCategories: []string{"PPC", "SEO"},
	},
}
