// Package client is a small typed HTTP client for the discovery search API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Sentinel errors returned by Search. Use errors.Is() to check.
var (
	// ErrRateLimited means the server throttled the caller; retry after the
	// duration in RateLimitError.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer covers every non-2xx response that is not a rate limit.
	ErrServer = errors.New("server error")
)

// RateLimitError carries the server's retry hint alongside ErrRateLimited.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// SearchRequest mirrors the POST /api/v1/search payload. Zero-valued fields
// are omitted and fall back to server defaults.
type SearchRequest struct {
	Query             string   `json:"query,omitempty"`
	ProductID         string   `json:"productId,omitempty"`
	Category          string   `json:"category,omitempty"`
	Occasion          string   `json:"occasion,omitempty"`
	PriceRange        string   `json:"priceRange,omitempty"`
	Allergens         []string `json:"allergens,omitempty"`
	FranchiseeID      string   `json:"franchiseeId,omitempty"`
	MinPrice          *float64 `json:"minPrice,omitempty"`
	MaxPrice          *float64 `json:"maxPrice,omitempty"`
	SemanticThreshold *float64 `json:"semanticThreshold,omitempty"`
	SemanticBoost     bool     `json:"semanticBoost,omitempty"`
	MaxResults        *int     `json:"maxResults,omitempty"`
}

// Product is one streamlined product in a search response.
type Product struct {
	ProductID       string   `json:"productId"`
	Name            string   `json:"name"`
	Price           string   `json:"price"`
	Description     string   `json:"description"`
	Options         []Option `json:"options,omitempty"`
	Allergens       []string `json:"allergens,omitempty"`
	AvailableAddons []string `json:"availableAddons,omitempty"`
	SemanticScore   *float64 `json:"semanticScore,omitempty"`
	InternalID      string   `json:"_internalId"`
}

// Option is one selectable size or variation of a product.
type Option struct {
	Name       string `json:"name"`
	Price      string `json:"price"`
	InternalID string `json:"_internalId"`
}

// SearchResponse is the full search result payload.
type SearchResponse struct {
	Products              []Product `json:"products"`
	Count                 int       `json:"count"`
	Summary               string    `json:"summary"`
	SearchMethod          string    `json:"searchMethod"`
	SemanticSearchUsed    bool      `json:"semanticSearchUsed"`
	StructuredResultCount int       `json:"structuredResultCount"`
}

// Client calls the discovery API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the API at baseURL (scheme and host, no path).
func New(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a product search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/api/v1/search", bytes.NewReader(body))
	if err != nil {
		return SearchResponse{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var rl struct {
			RetryAfter int `json:"retryAfter"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&rl)
		return SearchResponse{}, &RateLimitError{
			RetryAfter: time.Duration(rl.RetryAfter) * time.Second,
		}
	case resp.StatusCode != http.StatusOK:
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = resp.Status
		}
		return SearchResponse{}, fmt.Errorf("%s: %s: %w", apiErr.Error, apiErr.Details, ErrServer)
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SearchResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
