package search

import (
	"math"
	"sort"
	"sync"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/result"
)

// Cosine returns the cosine similarity dot(a,b)/(‖a‖·‖b‖) of two vectors,
// defined as 0 when either norm is 0.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// scoreTolerance absorbs float error in the cosine: an exact embedding
// match computes a hair under 1.0, and without the tolerance a threshold
// of 1.0 would drop it.
const scoreTolerance = 1e-9

// rank scores every candidate against the query vector, drops those below
// the threshold, sorts descending and truncates to limit. Candidates are
// independent, so scoring fans out over the worker pool when one is
// configured; the final order depends only on score, never on scheduling.
func (s *Service) rank(
	queryVec []float32, candidates []domain.Product, threshold float64, limit int,
) []result.Hit {
	scores := make([]float64, len(candidates))

	if s.pool != nil && len(candidates) > 1 {
		var wg sync.WaitGroup
		for i := range candidates {
			c := &candidates[i]
			idx := i
			wg.Add(1)
			task := func() {
				defer wg.Done()
				scores[idx] = scoreCandidate(queryVec, c)
			}
			if err := s.pool.Submit(task); err != nil {
				// Pool saturated or released; score inline.
				task()
			}
		}
		wg.Wait()
	} else {
		for i := range candidates {
			scores[i] = scoreCandidate(queryVec, &candidates[i])
		}
	}

	hits := make([]result.Hit, 0, len(candidates))
	for i := range candidates {
		if scores[i] >= threshold-scoreTolerance {
			hits = append(hits, result.New(candidates[i], scores[i], true))
		}
	}

	// Descending by score; ties break on product ID so identical requests
	// against an unchanged catalog yield identical orderings.
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		return hits[i].Product().ID < hits[j].Product().ID
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// scoreCandidate guards against stray dimension mismatches; such candidates
// score 0 and fall under any positive threshold.
func scoreCandidate(queryVec []float32, p *domain.Product) float64 {
	if len(p.Embedding) != len(queryVec) {
		return 0
	}
	return Cosine(queryVec, p.Embedding)
}
