// Package result defines a single ranked search hit.
package result

import "github.com/sweetstem/discovery/internal/domain"

// Hit is a product surviving the pipeline with its ranking metadata.
// Score is meaningful only for semantic hits.
type Hit struct {
	product  domain.Product
	score    float64
	semantic bool
}

// New creates a hit.
func New(p domain.Product, score float64, semantic bool) Hit {
	return Hit{product: p, score: score, semantic: semantic}
}

// Product returns the underlying catalog product.
func (h *Hit) Product() *domain.Product { return &h.product }

// Score returns the cosine similarity of a semantic hit, 0 otherwise.
func (h *Hit) Score() float64 { return h.score }

// Semantic reports whether the hit came from semantic retrieval.
func (h *Hit) Semantic() bool { return h.semantic }
