// Package catalog reads the product catalog owned by the external
// catalog-management process. Strictly read-only.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/filter"
)

var keyPrefix = domain.KeyPrefix + "product:"

// store is the consumer interface for catalog reads (ISP).
type store interface {
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo provides filtered reads over catalog product documents.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// FindByShortCode looks up exactly one active product by its customer-facing
// code. Returns domain.ErrProductNotFound on miss or when the product is
// inactive.
func (r *Repo) FindByShortCode(ctx context.Context, code int) (domain.Product, error) {
	products, err := r.loadAll(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for i := range products {
		if products[i].ShortCode == code && products[i].Active {
			return products[i], nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// List returns up to limit active products matching the structured filter.
// Order follows the catalog key order; ranking is not this layer's job.
func (r *Repo) List(ctx context.Context, f filter.Filter, limit int) ([]domain.Product, error) {
	products, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	for i := range products {
		if !f.Matches(&products[i]) {
			continue
		}
		out = append(out, products[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// SemanticCandidates returns up to limit active products that carry an
// embedding of the expected dimension and pass the price/category
// pre-filters. Callers over-fetch because similarity thresholding happens
// after retrieval.
func (r *Repo) SemanticCandidates(
	ctx context.Context, f filter.Filter, dimensions, limit int,
) ([]domain.Product, error) {
	products, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []domain.Product
	for i := range products {
		if !products[i].HasEmbedding(dimensions) {
			continue
		}
		if !f.Matches(&products[i]) {
			continue
		}
		out = append(out, products[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// loadAll scans and fetches every catalog document in one pipelined
// round-trip. Keys are sorted so identical requests against an unchanged
// catalog see identical orderings.
//
// TODO: replace the full scan with a secondary index once the catalog
// outgrows a single SCAN pass.
func (r *Repo) loadAll(ctx context.Context) ([]domain.Product, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan catalog: %w", err)
	}
	sort.Strings(keys)

	docs, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	products := make([]domain.Product, 0, len(docs))
	for _, data := range docs {
		if data == nil {
			continue
		}
		p, err := decodeProduct(data)
		if err != nil {
			// Broken documents belong to the catalog process; skip them.
			continue
		}
		products = append(products, p)
	}
	return products, nil
}
