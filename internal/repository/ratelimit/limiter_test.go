package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sweetstem/discovery/internal/domain"
)

// --- Mocks ---

type mockStore struct {
	counts    map[string]int64
	incrErr   error
	expireErr error
	expireNx  []bool
}

func newMockStore() *mockStore {
	return &mockStore{counts: map[string]int64{}}
}

func (m *mockStore) Incr(_ context.Context, key string) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.counts[key]++
	return m.counts[key], nil
}

func (m *mockStore) Expire(_ context.Context, _ string, _ time.Duration, nx bool) error {
	m.expireNx = append(m.expireNx, nx)
	return m.expireErr
}

// --- Tests ---

func TestAllow_UnderLimit(t *testing.T) {
	store := newMockStore()
	l := New(store, 3, time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		if err := l.Allow(context.Background(), "1.2.3.4", "product-search"); err != nil {
			t.Fatalf("request %d should be allowed: %v", i+1, err)
		}
	}
	err := l.Allow(context.Background(), "1.2.3.4", "product-search")
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("request over the limit = %v, want ErrRateLimited", err)
	}
}

func TestAllow_PerIdentifier(t *testing.T) {
	store := newMockStore()
	l := New(store, 1, time.Minute, zap.NewNop())

	if err := l.Allow(context.Background(), "1.2.3.4", "product-search"); err != nil {
		t.Fatalf("first client should be allowed: %v", err)
	}
	if err := l.Allow(context.Background(), "5.6.7.8", "product-search"); err != nil {
		t.Errorf("a different client must have its own window: %v", err)
	}
	if err := l.Allow(context.Background(), "1.2.3.4", "product-search"); !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("first client over its limit = %v, want ErrRateLimited", err)
	}
}

func TestAllow_PerEndpoint(t *testing.T) {
	store := newMockStore()
	l := New(store, 1, time.Minute, zap.NewNop())

	if err := l.Allow(context.Background(), "1.2.3.4", "product-search"); err != nil {
		t.Fatalf("should be allowed: %v", err)
	}
	if err := l.Allow(context.Background(), "1.2.3.4", "other-endpoint"); err != nil {
		t.Errorf("endpoints must be counted separately: %v", err)
	}
}

func TestAllow_FailsOpen(t *testing.T) {
	store := newMockStore()
	store.incrErr = errors.New("connection refused")
	l := New(store, 1, time.Minute, zap.NewNop())

	for i := 0; i < 5; i++ {
		if err := l.Allow(context.Background(), "1.2.3.4", "product-search"); err != nil {
			t.Fatalf("a broken store must not reject requests: %v", err)
		}
	}
}

func TestAllow_ExpireIsNX(t *testing.T) {
	store := newMockStore()
	l := New(store, 10, time.Minute, zap.NewNop())

	_ = l.Allow(context.Background(), "1.2.3.4", "product-search")
	_ = l.Allow(context.Background(), "1.2.3.4", "product-search")

	if len(store.expireNx) != 2 {
		t.Fatalf("expected 2 expire calls, got %d", len(store.expireNx))
	}
	for i, nx := range store.expireNx {
		if !nx {
			t.Errorf("expire call %d without NX would slide the window", i)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	l := New(newMockStore(), 1, 90*time.Second, zap.NewNop())
	if got := l.RetryAfter(); got != 90*time.Second {
		t.Errorf("RetryAfter = %v, want 90s", got)
	}
}
