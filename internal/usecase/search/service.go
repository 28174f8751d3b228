// Package search implements the product discovery pipeline: direct code
// resolution, structured filtering, semantic retrieval and the post-filters
// that shape the final result set.
package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/method"
	"github.com/sweetstem/discovery/internal/domain/search/request"
	"github.com/sweetstem/discovery/internal/domain/search/result"
	"github.com/sweetstem/discovery/internal/logger"
	"github.com/sweetstem/discovery/internal/metrics"
)

// Semantic retrieval supplements structured results only when structured
// matching came up short.
const structuredSufficient = 3

// Service orchestrates the search pipeline.
type Service struct {
	catalog   CatalogReader
	inventory InventoryReader
	embedder  domain.Embedder
	cfg       domain.SearchConfig
	pool      *ants.Pool
}

// Response is the pipeline output before streamlining.
type Response struct {
	Hits            []result.Hit
	Method          method.Method
	SemanticUsed    bool
	StructuredCount int
}

// New creates the search service. pool may be nil, in which case candidate
// scoring runs sequentially.
func New(
	catalog CatalogReader,
	inventory InventoryReader,
	embedder domain.Embedder,
	cfg domain.SearchConfig,
	pool *ants.Pool,
) *Service {
	return &Service{
		catalog:   catalog,
		inventory: inventory,
		embedder:  embedder,
		cfg:       cfg,
		pool:      pool,
	}
}

// Search runs the full pipeline for a normalized request.
//
// A resolvable product code short-circuits everything else. Otherwise
// structured filtering runs first, semantic retrieval supplements it when
// elected, and the allergen and inventory post-filters trim the merged set.
// Semantic failures degrade to structured-only results; only a catalog
// failure surfaces as an error.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	log := logger.FromContext(ctx)

	if code, ok := req.ShortCode(); ok {
		p, err := s.catalog.FindByShortCode(ctx, code)
		if err == nil {
			resp := Response{
				Hits:   []result.Hit{result.New(p, 0, false)},
				Method: method.DirectID,
			}
			observe(resp)
			return resp, nil
		}
		if !errors.Is(err, domain.ErrProductNotFound) {
			log.Warn("direct code lookup failed",
				zap.Int("code", code),
				zap.Error(err))
		}
		// An unresolvable code falls through to the remaining strategies.
	}

	var structured []domain.Product
	if !req.SemanticBoost() {
		var err error
		structured, err = s.catalog.List(ctx, req.Filter(), req.MaxResults())
		if err != nil {
			return Response{}, fmt.Errorf("structured search: %w: %w", domain.ErrCatalogUnavailable, err)
		}
	}

	var semantic []result.Hit
	semanticUsed := false
	if req.Query() != "" && (req.SemanticBoost() || len(structured) < structuredSufficient) {
		semanticUsed = true
		semantic = s.searchSemantic(ctx, req)
	}

	hits := combine(structured, semantic, req.SemanticBoost(), req.MaxResults())
	m := baseMethod(req, len(structured), semanticUsed)

	if len(req.Allergens()) > 0 {
		hits = filterAllergens(hits, req.Allergens())
		m = m.WithAllergyFiltered()
	}

	if req.FranchiseeID() != "" && len(hits) > 0 {
		filtered, checked := s.filterInventory(ctx, req.FranchiseeID(), hits)
		if checked {
			hits = filtered
			m = m.WithInventoryChecked()
		}
	}

	resp := Response{
		Hits:            hits,
		Method:          m,
		SemanticUsed:    semanticUsed,
		StructuredCount: len(structured),
	}
	observe(resp)
	return resp, nil
}

// searchSemantic embeds the query, fetches candidates and ranks them. Any
// failure returns nil: semantic retrieval is best-effort on top of the
// structured results.
func (s *Service) searchSemantic(ctx context.Context, req *request.Request) []result.Hit {
	log := logger.FromContext(ctx)

	res, err := s.embedder.Embed(ctx, req.Query())
	if err != nil {
		log.Warn("embedding unavailable, skipping semantic search", zap.Error(err))
		return nil
	}
	if len(res.Embedding) != s.cfg.EmbeddingDimensions {
		log.Warn("embedding has unexpected dimensions, skipping semantic search",
			zap.Int("got", len(res.Embedding)),
			zap.Int("want", s.cfg.EmbeddingDimensions))
		return nil
	}

	// Over-fetch so that threshold filtering and dedup still leave enough
	// hits to fill the page.
	overFetch := s.cfg.OverFetchMultiplier * req.MaxResults()
	candidates, err := s.catalog.SemanticCandidates(
		ctx, req.Filter().WithoutText(), s.cfg.EmbeddingDimensions, overFetch)
	if err != nil {
		log.Warn("semantic candidate fetch failed, skipping semantic search", zap.Error(err))
		return nil
	}

	threshold, ok := req.Threshold()
	if !ok {
		threshold = s.cfg.SemanticThreshold
	}
	return s.rank(res.Embedding, candidates, threshold, req.MaxResults())
}

// combine merges structured and semantic hits. Boosted requests return the
// semantic set alone; otherwise structured hits keep their catalog order and
// semantic hits fill the remainder, deduplicated by product ID.
func combine(structured []domain.Product, semantic []result.Hit, boost bool, limit int) []result.Hit {
	if boost {
		return truncate(semantic, limit)
	}

	hits := make([]result.Hit, 0, len(structured)+len(semantic))
	seen := make(map[domain.ProductID]struct{}, len(structured))
	for i := range structured {
		seen[structured[i].ID] = struct{}{}
		hits = append(hits, result.New(structured[i], 0, false))
	}
	for _, h := range semantic {
		if _, dup := seen[h.Product().ID]; dup {
			continue
		}
		seen[h.Product().ID] = struct{}{}
		hits = append(hits, h)
	}
	return truncate(hits, limit)
}

func baseMethod(req *request.Request, structuredCount int, semanticUsed bool) method.Method {
	switch {
	case req.SemanticBoost():
		return method.SemanticBoost
	case semanticUsed && structuredCount == 0:
		return method.SemanticOnly
	case semanticUsed:
		return method.HybridFallback
	default:
		return method.Structured
	}
}

func filterAllergens(hits []result.Hit, exclusions []string) []result.Hit {
	out := make([]result.Hit, 0, len(hits))
	for i := range hits {
		if !hits[i].Product().ContainsAllergen(exclusions) {
			out = append(out, hits[i])
		}
	}
	return out
}

// filterInventory drops hits the store cannot fulfill. When the inventory
// read fails the unfiltered set is returned and checked is false, so the
// response method does not claim a check that never happened.
func (s *Service) filterInventory(
	ctx context.Context, franchiseeID string, hits []result.Hit,
) ([]result.Hit, bool) {
	ids := make([]domain.ProductID, len(hits))
	for i := range hits {
		ids[i] = hits[i].Product().ID
	}

	avail, err := s.inventory.Available(ctx, franchiseeID, ids)
	if err != nil {
		logger.FromContext(ctx).Warn("inventory check failed, returning unfiltered results",
			zap.String("franchisee_id", franchiseeID),
			zap.Error(err))
		return hits, false
	}

	out := make([]result.Hit, 0, len(hits))
	for i := range hits {
		if avail[hits[i].Product().ID] {
			out = append(out, hits[i])
		}
	}
	return out, true
}

func truncate(hits []result.Hit, limit int) []result.Hit {
	if len(hits) > limit {
		return hits[:limit]
	}
	return hits
}

func observe(resp Response) {
	metrics.SearchRequestsTotal.WithLabelValues(resp.Method.String()).Inc()
	metrics.SearchResultsReturned.
		WithLabelValues(strconv.FormatBool(resp.SemanticUsed)).
		Observe(float64(len(resp.Hits)))
}
