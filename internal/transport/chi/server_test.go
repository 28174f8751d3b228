package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/domain/search/filter"
	healthuc "github.com/sweetstem/discovery/internal/usecase/health"
	searchuc "github.com/sweetstem/discovery/internal/usecase/search"
)

// --- Mocks ---

type mockCatalog struct {
	direct     domain.Product
	directErr  error
	list       []domain.Product
	listErr    error
	candidates []domain.Product
}

func (m *mockCatalog) FindByShortCode(_ context.Context, _ int) (domain.Product, error) {
	return m.direct, m.directErr
}

func (m *mockCatalog) List(_ context.Context, _ filter.Filter, _ int) ([]domain.Product, error) {
	return m.list, m.listErr
}

func (m *mockCatalog) SemanticCandidates(
	_ context.Context, _ filter.Filter, _, _ int,
) ([]domain.Product, error) {
	return m.candidates, nil
}

type mockInventory struct{}

func (m *mockInventory) Available(
	_ context.Context, _ string, _ []domain.ProductID,
) (map[domain.ProductID]bool, error) {
	return nil, nil
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockLimiter struct {
	err        error
	retryAfter time.Duration
	lastClient string
}

func (m *mockLimiter) Allow(_ context.Context, identifier, _ string) error {
	m.lastClient = identifier
	return m.err
}

func (m *mockLimiter) RetryAfter() time.Duration { return m.retryAfter }

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

// --- Helpers ---

func newTestRouter(cat *mockCatalog, limiter RateLimiter) http.Handler {
	cfg := domain.SearchConfig{
		SemanticThreshold:   0.7,
		EmbeddingDimensions: 3,
		OverFetchMultiplier: 5,
		DefaultMaxResults:   10,
	}
	searchSvc := searchuc.New(cat, &mockInventory{}, &mockEmbedder{err: domain.ErrEmbeddingProviderError}, cfg, nil)
	healthSvc := healthuc.New(&mockPinger{}, &mockChecker{})
	server := NewServer(searchSvc, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(CORSMiddleware("*"))
	server.Register(r, limiter)
	return r
}

func berryBox() domain.Product {
	return domain.Product{
		ID:        "uuid-1",
		ShortCode: 3075,
		Name:      "Berry Box",
		BasePrice: 49.99,
		Active:    true,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

// --- Tests ---

func TestSearch_GET(t *testing.T) {
	cat := &mockCatalog{list: []domain.Product{berryBox()}}
	router := newTestRouter(cat, &mockLimiter{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=berry+box+please+be+specific", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("count = %v, want 1", body["count"])
	}
	if body["searchMethod"] == "" {
		t.Error("searchMethod missing")
	}
	products, ok := body["products"].([]any)
	if !ok || len(products) != 1 {
		t.Fatalf("products = %v, want 1 entry", body["products"])
	}
	p := products[0].(map[string]any)
	if p["price"] != "$49.99" {
		t.Errorf("price = %v, want $49.99", p["price"])
	}
	if p["productId"] != "3075" {
		t.Errorf("productId = %v, want 3075", p["productId"])
	}
}

func TestSearch_POST(t *testing.T) {
	cat := &mockCatalog{direct: berryBox()}
	router := newTestRouter(cat, &mockLimiter{})

	payload := `{"productId": "3075"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["searchMethod"] != "direct_id" {
		t.Errorf("searchMethod = %v, want direct_id", body["searchMethod"])
	}
}

func TestSearch_POSTBadBody(t *testing.T) {
	router := newTestRouter(&mockCatalog{}, &mockLimiter{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Search failed" {
		t.Errorf("error = %v, want Search failed", body["error"])
	}
	if details, ok := body["details"].(string); !ok || details == "" {
		t.Error("details missing")
	}
}

func TestSearch_CatalogDown(t *testing.T) {
	cat := &mockCatalog{listErr: errors.New("connection refused")}
	router := newTestRouter(cat, &mockLimiter{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=berry", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Search failed" {
		t.Errorf("error = %v, want Search failed", body["error"])
	}
}

func TestSearch_RateLimited(t *testing.T) {
	limiter := &mockLimiter{err: domain.ErrRateLimited, retryAfter: time.Minute}
	router := newTestRouter(&mockCatalog{}, limiter)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Rate limit exceeded" {
		t.Errorf("error = %v", body["error"])
	}
	if body["retryAfter"] != float64(60) {
		t.Errorf("retryAfter = %v, want 60", body["retryAfter"])
	}
	if limiter.lastClient != "1.2.3.4" {
		t.Errorf("client identifier = %q, want first X-Forwarded-For entry", limiter.lastClient)
	}
}

func TestSearch_OPTIONSPreflight(t *testing.T) {
	router := newTestRouter(&mockCatalog{}, &mockLimiter{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Errorf("Allow-Methods = %q, want POST included", got)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&mockCatalog{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	healthSvc := healthuc.New(&mockPinger{err: errors.New("down")}, &mockChecker{})
	server := NewServer(nil, healthSvc, zap.NewNop())

	r := chi.NewRouter()
	server.Register(r, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestClientIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"forwarded single", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "1.2.3.4"},
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "5.6.7.8"},
		{"client ip", map[string]string{"X-Client-IP": "9.9.9.9"}, "9.9.9.9"},
		{"none", nil, "unknown-client"},
		{
			"forwarded wins",
			map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "5.6.7.8"},
			"1.2.3.4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := clientIdentifier(req); got != tt.want {
				t.Errorf("clientIdentifier = %q, want %q", got, tt.want)
			}
		})
	}
}
