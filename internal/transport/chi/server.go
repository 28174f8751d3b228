// Package chi wires the HTTP API onto a chi router.
package chi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sweetstem/discovery/internal/domain/search/request"
	healthuc "github.com/sweetstem/discovery/internal/usecase/health"
	searchuc "github.com/sweetstem/discovery/internal/usecase/search"
)

// Server holds the use case services behind the HTTP handlers.
type Server struct {
	search *searchuc.Service
	health *healthuc.Service
	logger *zap.Logger
}

// NewServer creates the HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, logger: logger}
}

// Register mounts every route on the router. The rate limiter applies to the
// search endpoint only; health and metrics stay unthrottled for probes.
func (s *Server) Register(r chi.Router, limiter RateLimiter) {
	r.Route("/api/v1", func(api chi.Router) {
		api.With(RateLimitMiddleware(limiter, "product-search")).
			Get("/search", s.SearchProducts)
		api.With(RateLimitMiddleware(limiter, "product-search")).
			Post("/search", s.SearchProducts)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchBody is the POST request payload. Field names follow the public API
// contract; productId and id are interchangeable.
type searchBody struct {
	Query             string   `json:"query"`
	ProductID         string   `json:"productId"`
	ID                string   `json:"id"`
	Category          string   `json:"category"`
	Occasion          string   `json:"occasion"`
	PriceRange        string   `json:"priceRange"`
	Allergens         []string `json:"allergens"`
	FranchiseeID      string   `json:"franchiseeId"`
	MinPrice          *float64 `json:"minPrice"`
	MaxPrice          *float64 `json:"maxPrice"`
	SemanticThreshold *float64 `json:"semanticThreshold"`
	SemanticBoost     bool     `json:"semanticBoost"`
	MaxResults        *int     `json:"maxResults"`
}

type searchResponse struct {
	Products              []searchuc.StreamlinedProduct `json:"products"`
	Count                 int                           `json:"count"`
	Summary               string                        `json:"summary"`
	SearchMethod          string                        `json:"searchMethod"`
	SemanticSearchUsed    bool                          `json:"semanticSearchUsed"`
	StructuredResultCount int                           `json:"structuredResultCount"`
}

// SearchProducts handles GET and POST /api/v1/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params, err := decodeSearchParams(r)
	if err != nil {
		s.logger.Warn("unreadable search request", zap.Error(err))
		writeSearchError(w, err)
		return
	}

	req := request.New(params)
	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		writeSearchError(w, err)
		return
	}

	products := searchuc.StreamlineAll(resp.Hits)
	writeJSON(w, http.StatusOK, searchResponse{
		Products:              products,
		Count:                 len(products),
		Summary:               searchuc.Summarize(&req, len(products), resp.SemanticUsed),
		SearchMethod:          resp.Method.String(),
		SemanticSearchUsed:    resp.SemanticUsed,
		StructuredResultCount: resp.StructuredCount,
	})
}

func decodeSearchParams(r *http.Request) (request.Params, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		return request.Params{
			Query:         q.Get("query"),
			ProductCode:   firstNonEmpty(q.Get("productId"), q.Get("id")),
			Category:      q.Get("category"),
			Occasion:      q.Get("occasion"),
			PriceRange:    q.Get("priceRange"),
			Allergens:     q.Get("allergens"),
			FranchiseeID:  q.Get("franchiseeId"),
			MinPrice:      request.ParsePrice(q.Get("minPrice")),
			MaxPrice:      request.ParsePrice(q.Get("maxPrice")),
			Threshold:     request.ParsePrice(q.Get("semanticThreshold")),
			SemanticBoost: q.Get("semanticBoost") == "true",
			MaxResults:    parseIntParam(q.Get("maxResults")),
		}, nil
	}

	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return request.Params{}, err
	}
	return request.Params{
		Query:         body.Query,
		ProductCode:   firstNonEmpty(body.ProductID, body.ID),
		Category:      body.Category,
		Occasion:      body.Occasion,
		PriceRange:    body.PriceRange,
		Allergens:     strings.Join(body.Allergens, ","),
		FranchiseeID:  body.FranchiseeID,
		MinPrice:      body.MinPrice,
		MaxPrice:      body.MaxPrice,
		Threshold:     body.SemanticThreshold,
		SemanticBoost: body.SemanticBoost,
		MaxResults:    body.MaxResults,
	}, nil
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.StatusOK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSearchError reports every search failure the same way, without
// distinguishing bad input from backend trouble to the client.
func writeSearchError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "Search failed",
		"details": err.Error(),
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseIntParam(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
