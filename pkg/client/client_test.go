package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/search" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "chocolate strawberries" {
			t.Errorf("query = %q", req.Query)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Products: []Product{{ProductID: "3075", Name: "Berry Box", Price: "$49.99"}},
			Count:    1,
			Summary:  `Found 1 product matching "chocolate strawberries"`,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Search(context.Background(), SearchRequest{Query: "chocolate strawberries"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 1 || len(resp.Products) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Products[0].Price != "$49.99" {
		t.Errorf("price = %q", resp.Products[0].Price)
	}
}

func TestSearch_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":      "Rate limit exceeded",
			"retryAfter": 60,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Search(context.Background(), SearchRequest{Query: "berries"})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}

	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("error = %T, want *RateLimitError", err)
	}
	if rl.RetryAfter != time.Minute {
		t.Errorf("RetryAfter = %v, want 1m", rl.RetryAfter)
	}
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "Search failed",
			"details": "catalog unavailable",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Search(context.Background(), SearchRequest{Query: "berries"})
	if !errors.Is(err, ErrServer) {
		t.Fatalf("error = %v, want ErrServer", err)
	}
}
