// Package ratelimit implements a fixed-window request limiter on the shared
// store. INCR decides allow/deny atomically, so two concurrent requests from
// one identifier cannot both slip under the limit.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sweetstem/discovery/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "ratelimit:"

// store is the consumer interface for limiter operations (ISP).
type store interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Limiter is a fixed-window counter per (identifier, endpoint).
type Limiter struct {
	store  store
	limit  int64
	window time.Duration
	logger *zap.Logger
}

// New creates a limiter allowing limit requests per window.
func New(s store, limit int64, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{store: s, limit: limit, window: window, logger: logger}
}

// Allow performs an atomic check-and-increment for the identifier/endpoint
// pair and returns domain.ErrRateLimited once the window is exhausted.
// A soft limiter: store failures fail open.
func (l *Limiter) Allow(ctx context.Context, identifier, endpoint string) error {
	key := keyPrefix + endpoint + ":" + identifier

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		l.logger.Warn("rate limit check failed, allowing request",
			zap.String("key", key), zap.Error(err))
		return nil
	}

	// Window starts with the first request; NX keeps it from sliding.
	if err := l.store.Expire(ctx, key, l.window, true); err != nil {
		l.logger.Warn("rate limit expire failed", zap.String("key", key), zap.Error(err))
	}

	if count > l.limit {
		return fmt.Errorf("%s by %s: %w", endpoint, identifier, domain.ErrRateLimited)
	}
	return nil
}

// RetryAfter returns how long a rejected caller should wait.
func (l *Limiter) RetryAfter() time.Duration { return l.window }
