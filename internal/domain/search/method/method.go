// Package method names the retrieval strategy that produced a response.
// The value is diagnostic metadata, not a stable contract.
package method

// Method identifies which pipeline path served the request.
type Method string

// Base methods.
const (
	DirectID       Method = "direct_id"
	Structured     Method = "structured"
	SemanticOnly   Method = "semantic_only"
	SemanticBoost  Method = "semantic_boost"
	HybridFallback Method = "hybrid_semantic_fallback"
)

// WithAllergyFiltered marks that the allergen post-filter ran.
func (m Method) WithAllergyFiltered() Method { return m + "_allergy_filtered" }

// WithInventoryChecked marks that the per-store inventory post-filter ran.
func (m Method) WithInventoryChecked() Method { return m + "_inventory_checked" }

func (m Method) String() string { return string(m) }
