// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
)

// ResultCache stores fetched listings per normalized query for a bounded
// time. Entries are immutable once stored; a Put replaces any prior entry
// wholesale. Get treats an entry older than the cache TTL as absent.
type ResultCache interface {
	Get(ctx context.Context, normalizedQuery string) ([]domain.Listing, bool, error)
	Put(ctx context.Context, normalizedQuery string, listings []domain.Listing) error
}
