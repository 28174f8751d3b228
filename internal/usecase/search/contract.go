package search

import (
	"context"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/filter"
)

// CatalogReader defines the catalog store contract for the pipeline.
type CatalogReader interface {
	// FindByShortCode resolves exactly one active product by customer-facing
	// code, or domain.ErrProductNotFound.
	FindByShortCode(ctx context.Context, code int) (domain.Product, error)

	// List returns up to limit active products matching the structured
	// filter, in stable catalog order.
	List(ctx context.Context, f filter.Filter, limit int) ([]domain.Product, error)

	// SemanticCandidates returns up to limit active products carrying an
	// embedding of the given dimension and passing the pre-filters.
	SemanticCandidates(ctx context.Context, f filter.Filter, dimensions, limit int) ([]domain.Product, error)
}

// InventoryReader reports per-store availability for a set of products.
type InventoryReader interface {
	Available(ctx context.Context, franchiseeID string, ids []domain.ProductID) (map[domain.ProductID]bool, error)
}
