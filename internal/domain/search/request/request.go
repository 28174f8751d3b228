// Package request defines the canonical SearchRequest produced by the query
// normalizer. Every field is optional; malformed values become absent rather
// than rejecting the request.
package request

import (
	"strconv"
	"strings"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/filter"
)

// Request limits and defaults.
const (
	DefaultThreshold  = 0.7
	DefaultMaxResults = 10
	MaxMaxResults     = 50
)

// Params carries the raw, untrusted request fields as the transport decoded
// them. New turns them into a canonical Request.
type Params struct {
	Query         string
	ProductCode   string
	Category      string
	Occasion      string // alias of Category, lower precedence
	PriceRange    string
	Allergens     string // comma-separated
	FranchiseeID  string
	MinPrice      *float64
	MaxPrice      *float64
	Threshold     *float64
	SemanticBoost bool
	MaxResults    *int
}

// Request is a normalized search request.
type Request struct {
	query         string
	shortCode     int
	hasShortCode  bool
	category      string
	band          filter.Band
	minPrice      *float64
	maxPrice      *float64
	allergens     []string
	franchiseeID  string
	threshold     float64
	hasThreshold  bool
	semanticBoost bool
	maxResults    int
}

// New normalizes raw parameters into a Request. It never fails: unknown
// bands, out-of-range codes and malformed numbers degrade to absent fields.
func New(p Params) Request {
	r := Request{
		query:         strings.TrimSpace(p.Query),
		category:      firstNonEmpty(p.Category, p.Occasion),
		band:          filter.ParseBand(p.PriceRange),
		minPrice:      p.MinPrice,
		maxPrice:      p.MaxPrice,
		allergens:     splitAllergens(p.Allergens),
		franchiseeID:  strings.TrimSpace(p.FranchiseeID),
		threshold:     DefaultThreshold,
		semanticBoost: p.SemanticBoost,
		maxResults:    DefaultMaxResults,
	}

	if code, err := strconv.Atoi(strings.TrimSpace(p.ProductCode)); err == nil {
		if code >= domain.ShortCodeMin && code <= domain.ShortCodeMax {
			r.shortCode = code
			r.hasShortCode = true
		}
	}

	if p.Threshold != nil {
		r.threshold = clamp(*p.Threshold, 0, 1)
		r.hasThreshold = true
	}

	if p.MaxResults != nil && *p.MaxResults > 0 {
		r.maxResults = *p.MaxResults
		if r.maxResults > MaxMaxResults {
			r.maxResults = MaxMaxResults
		}
	}

	return r
}

// ParsePrice parses an optional price string. Invalid numeric strings become
// absent, not zero.
func ParsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// ShortCode returns the direct product code and whether one was given.
func (r *Request) ShortCode() (int, bool) { return r.shortCode, r.hasShortCode }

// Category returns the category/occasion term.
func (r *Request) Category() string { return r.category }

// Band returns the named price band.
func (r *Request) Band() filter.Band { return r.band }

// MinPrice returns the inclusive lower price bound, if given.
func (r *Request) MinPrice() *float64 { return r.minPrice }

// MaxPrice returns the inclusive upper price bound, if given.
func (r *Request) MaxPrice() *float64 { return r.maxPrice }

// Allergens returns the lowercased exclusion list.
func (r *Request) Allergens() []string { return r.allergens }

// FranchiseeID returns the store identifier for inventory checks.
func (r *Request) FranchiseeID() string { return r.franchiseeID }

// Threshold returns the similarity threshold clamped to [0,1], and whether
// the caller set one explicitly. When absent the configured default applies.
func (r *Request) Threshold() (float64, bool) { return r.threshold, r.hasThreshold }

// SemanticBoost reports whether semantic search is forced.
func (r *Request) SemanticBoost() bool { return r.semanticBoost }

// MaxResults returns the result cap.
func (r *Request) MaxResults() int { return r.maxResults }

// Filter builds the structured predicate set for this request.
func (r *Request) Filter() filter.Filter {
	return filter.Filter{
		Text:     r.query,
		Category: r.category,
		Band:     r.band,
		MinPrice: r.minPrice,
		MaxPrice: r.maxPrice,
	}
}

func splitAllergens(csv string) []string {
	if csv == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if a := strings.ToLower(strings.TrimSpace(part)); a != "" {
			out = append(out, a)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
