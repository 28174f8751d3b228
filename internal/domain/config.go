package domain

// SearchConfig holds the pipeline tunables, constructed once at startup and
// passed by reference into the search service.
type SearchConfig struct {
	SemanticThreshold   float64
	EmbeddingDimensions int
	OverFetchMultiplier int
	DefaultMaxResults   int
}

// DefaultSearchConfig returns the tunables matching the storefront defaults.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		SemanticThreshold:   0.7,
		EmbeddingDimensions: 1536,
		OverFetchMultiplier: 5,
		DefaultMaxResults:   10,
	}
}
