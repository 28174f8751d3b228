package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/result"
)

const (
	descriptionLimit = 100
	maxAddons        = 3

	fallbackDescription = "Delicious arrangement perfect for any occasion"
)

// The customer-facing allergen vocabulary. Ingredient tags outside this set
// stay internal.
var allergenVocabulary = []string{"nuts", "peanut", "dairy", "gluten", "soy"}

// StreamlinedProduct is the reduced, presentation-ready product shape
// returned to clients. Prices are pre-formatted strings and internal fields
// are limited to the IDs an ordering flow needs.
type StreamlinedProduct struct {
	ProductID       string              `json:"productId"`
	Name            string              `json:"name"`
	Price           string              `json:"price"`
	Description     string              `json:"description"`
	Options         []StreamlinedOption `json:"options,omitempty"`
	Allergens       []string            `json:"allergens,omitempty"`
	AvailableAddons []string            `json:"availableAddons,omitempty"`
	SemanticScore   *float64            `json:"semanticScore,omitempty"`
	InternalID      string              `json:"_internalId"`
}

// StreamlinedOption is one selectable size or variation of a product.
type StreamlinedOption struct {
	Name       string `json:"name"`
	Price      string `json:"price"`
	InternalID string `json:"_internalId"`
}

// Streamline reduces a ranked hit to its customer-facing form.
func Streamline(h *result.Hit) StreamlinedProduct {
	p := h.Product()

	out := StreamlinedProduct{
		ProductID:       shortCodeString(p.ShortCode),
		Name:            p.Name,
		Price:           formatPrice(p.BasePrice),
		Description:     streamlineDescription(p.Description),
		Allergens:       knownAllergens(p.Ingredients),
		AvailableAddons: formatAddons(p.Addons),
		InternalID:      string(p.ID),
	}

	// A single variant is just the base product; options only matter when
	// there is a choice to make.
	if len(p.Variants) > 1 {
		out.Options = make([]StreamlinedOption, 0, len(p.Variants))
		for _, v := range p.Variants {
			out.Options = append(out.Options, StreamlinedOption{
				Name:       v.Name,
				Price:      formatPrice(v.Price),
				InternalID: v.ID,
			})
		}
	}

	if h.Semantic() && h.Score() > 0 {
		score := math.Round(h.Score()*100) / 100
		out.SemanticScore = &score
	}

	return out
}

// StreamlineAll maps a hit list to its streamlined form. Never nil, so the
// JSON products field encodes as [] rather than null.
func StreamlineAll(hits []result.Hit) []StreamlinedProduct {
	out := make([]StreamlinedProduct, 0, len(hits))
	for i := range hits {
		out = append(out, Streamline(&hits[i]))
	}
	return out
}

func shortCodeString(code int) string {
	if code == 0 {
		return "0000"
	}
	return strconv.Itoa(code)
}

func formatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func streamlineDescription(desc string) string {
	if desc == "" {
		return fallbackDescription
	}
	// Truncate on rune boundaries; slicing bytes could split a multibyte
	// character and hand the client invalid UTF-8.
	runes := []rune(desc)
	if len(runes) > descriptionLimit {
		return string(runes[:descriptionLimit-3]) + "..."
	}
	return desc
}

func knownAllergens(ingredients []string) []string {
	var out []string
	for _, ing := range ingredients {
		lowered := strings.ToLower(ing)
		for _, a := range allergenVocabulary {
			if lowered == a {
				out = append(out, lowered)
				break
			}
		}
	}
	return out
}

func formatAddons(addons []domain.Addon) []string {
	if len(addons) == 0 {
		return nil
	}
	n := len(addons)
	if n > maxAddons {
		n = maxAddons
	}
	out := make([]string, 0, n)
	for _, a := range addons[:n] {
		out = append(out, fmt.Sprintf("%s (%s)", a.Name, formatPrice(a.Price)))
	}
	return out
}
