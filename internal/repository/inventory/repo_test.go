package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/sweetstem/discovery/internal/domain"
)

type mockStore struct {
	hashes map[string]map[string]string
	err    error
}

func (m *mockStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hashes[key], nil
}

func TestAvailable(t *testing.T) {
	store := &mockStore{hashes: map[string]map[string]string{
		keyPrefix + "store-7": {
			"p1": "3",
			"p2": "0",
			"p3": "oops",
		},
	}}
	repo := New(store)

	got, err := repo.Available(context.Background(), "store-7",
		[]domain.ProductID{"p1", "p2", "p3", "p4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got["p1"] {
		t.Error("p1 has stock, want available")
	}
	if got["p2"] {
		t.Error("p2 has zero quantity, want unavailable")
	}
	if got["p3"] {
		t.Error("p3 has a malformed quantity, want unavailable")
	}
	if got["p4"] {
		t.Error("p4 has no record, want unavailable")
	}
}

func TestAvailable_StoreError(t *testing.T) {
	repo := New(&mockStore{err: errors.New("connection refused")})
	if _, err := repo.Available(context.Background(), "store-7", []domain.ProductID{"p1"}); err == nil {
		t.Fatal("expected error")
	}
}
