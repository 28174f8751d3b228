// Package inventory reads per-store availability from the shared ledger.
package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sweetstem/discovery/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "inventory:"

// store is the consumer interface for inventory reads (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo provides point lookups over per-franchisee inventory hashes.
type Repo struct {
	store store
}

// New creates an inventory repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Available reports which of the given products have a positive available
// quantity at the franchisee's store. Products without a record are absent
// from the result.
func (r *Repo) Available(
	ctx context.Context, franchiseeID string, ids []domain.ProductID,
) (map[domain.ProductID]bool, error) {
	ledger, err := r.store.HGetAll(ctx, keyPrefix+franchiseeID)
	if err != nil {
		return nil, fmt.Errorf("inventory read %s: %w", franchiseeID, err)
	}

	out := make(map[domain.ProductID]bool, len(ids))
	for _, id := range ids {
		raw, ok := ledger[string(id)]
		if !ok {
			continue
		}
		qty, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		if qty > 0 {
			out[id] = true
		}
	}
	return out, nil
}
