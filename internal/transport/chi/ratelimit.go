package chi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sweetstem/discovery/internal/domain"
	"github.com/sweetstem/discovery/internal/metrics"
)

// RateLimiter is the per-client throttle consulted before a request is served.
type RateLimiter interface {
	// Allow returns domain.ErrRateLimited when the identified client has
	// exhausted its window on the endpoint. Implementations must fail open
	// on store errors.
	Allow(ctx context.Context, identifier, endpoint string) error
	RetryAfter() time.Duration
}

// RateLimitMiddleware rejects over-limit clients with 429 before the handler
// runs. A nil limiter disables throttling.
func RateLimitMiddleware(limiter RateLimiter, endpoint string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			err := limiter.Allow(r.Context(), clientIdentifier(r), endpoint)
			if !errors.Is(err, domain.ErrRateLimited) {
				// Only a limit verdict blocks the request.
				next.ServeHTTP(w, r)
				return
			}

			metrics.RateLimitRejectedTotal.WithLabelValues(endpoint).Inc()

			retryAfter := int(limiter.RetryAfter().Seconds())
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error":      "Rate limit exceeded",
				"message":    "Too many product searches. Please wait a moment and try again.",
				"retryAfter": retryAfter,
			})
		})
	}
}

// clientIdentifier extracts a stable client identity from forwarding
// headers. Behind a proxy the first X-Forwarded-For entry is the original
// caller; clients with no identifying header all share one bucket.
func clientIdentifier(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.IndexByte(xff, ','); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Client-IP"); ip != "" {
		return ip
	}
	return "unknown-client"
}
