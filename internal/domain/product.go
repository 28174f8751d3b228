package domain

import "strings"

// Short-code range reserved for customer-facing product identifiers.
const (
	ShortCodeMin = 1000
	ShortCodeMax = 9999
)

// ProductID is the catalog's opaque internal product identity. Duplicate
// detection between structured and semantic hit sets compares this one type.
type ProductID string

// Variant is a purchasable option of a product with its own price.
type Variant struct {
	ID       string
	Name     string
	Price    float64
	ImageURL string
}

// Addon is an extra offered alongside a product.
type Addon struct {
	Name  string
	Price float64
}

// Product is a catalog entry as owned by the external catalog-management
// process. This subsystem reads it, never mutates it.
type Product struct {
	ID          ProductID
	ShortCode   int
	Name        string
	Description string
	BasePrice   float64
	Active      bool
	Variants    []Variant
	Ingredients []string
	Addons      []Addon
	Categories  []string
	Embedding   []float32
}

// HasEmbedding reports whether the product carries a vector of the expected
// dimension. Products without one are excluded from semantic search.
func (p *Product) HasEmbedding(dimensions int) bool {
	return len(p.Embedding) == dimensions
}

// ContainsAllergen reports whether any ingredient tag matches one of the
// excluded allergens, case-insensitively.
func (p *Product) ContainsAllergen(exclusions []string) bool {
	for _, ing := range p.Ingredients {
		lowered := strings.ToLower(ing)
		for _, ex := range exclusions {
			if lowered == strings.ToLower(ex) {
				return true
			}
		}
	}
	return false
}
