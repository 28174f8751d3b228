// Package filter holds the structured predicates shared by the structured
// search and the semantic candidate pre-fetch.
package filter

import (
	"strings"
	"unicode"

	"github.com/sweetstem/discovery/internal/domain"
)

// Band is a named price bucket.
type Band string

// Known price bands. Budget and mid overlap at exactly 50, mid and premium
// at exactly 100; both boundaries are inclusive on purpose.
const (
	BandNone    Band = ""
	BandBudget  Band = "budget"
	BandMid     Band = "mid"
	BandPremium Band = "premium"
)

// Band boundaries in the catalog's currency.
const (
	budgetCeiling = 50
	premiumFloor  = 100
)

// ParseBand maps user-facing band names onto the three canonical bands.
// Unknown names parse to BandNone and are ignored downstream.
func ParseBand(s string) Band {
	switch strings.ToLower(s) {
	case "budget":
		return BandBudget
	case "mid", "medium":
		return BandMid
	case "premium", "luxury":
		return BandPremium
	default:
		return BandNone
	}
}

// Matches reports whether a price falls into the band. BandNone matches everything.
func (b Band) Matches(price float64) bool {
	switch b {
	case BandBudget:
		return price <= budgetCeiling
	case BandMid:
		return price >= budgetCeiling && price <= premiumFloor
	case BandPremium:
		return price >= premiumFloor
	default:
		return true
	}
}

// Filter is the set of optional, AND-combined structured predicates.
// Zero-valued fields do not constrain.
type Filter struct {
	Text     string
	Category string
	Band     Band
	MinPrice *float64
	MaxPrice *float64
}

// WithoutText returns a copy without the text predicate. The semantic
// candidate fetch pre-filters by price and category only; text relevance is
// what the similarity ranking decides.
func (f Filter) WithoutText() Filter {
	f.Text = ""
	return f
}

// Matches applies every set predicate to the product. Inactive products
// never match: only active=true products are customer-visible.
func (f Filter) Matches(p *domain.Product) bool {
	if !p.Active {
		return false
	}
	if f.Text != "" && !matchesText(p, f.Text) {
		return false
	}
	if f.Category != "" && !matchesCategory(p, f.Category) {
		return false
	}
	if !f.Band.Matches(p.BasePrice) {
		return false
	}
	if f.MinPrice != nil && p.BasePrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.BasePrice > *f.MaxPrice {
		return false
	}
	return true
}

// matchesText is a case-insensitive substring match on name OR description.
func matchesText(p *domain.Product, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), t) ||
		strings.Contains(strings.ToLower(p.Description), t)
}

// matchesCategory matches the term as-given, lowercased, or capitalized.
// Catalog category casing is inconsistent, so all three spellings count.
func matchesCategory(p *domain.Product, term string) bool {
	forms := [3]string{term, strings.ToLower(term), capitalize(term)}
	for _, c := range p.Categories {
		for _, form := range forms {
			if c == form {
				return true
			}
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
