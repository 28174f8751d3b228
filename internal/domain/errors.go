package domain

import "errors"

var (
	// ErrProductNotFound signals a missing catalog product.
	ErrProductNotFound = errors.New("product not found")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrCatalogUnavailable signals a failed mandatory catalog read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Recovered inside the pipeline: semantic search is skipped, never surfaced.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
