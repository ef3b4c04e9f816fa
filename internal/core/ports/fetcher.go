// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
)

// Fetcher performs the external shopping search and returns normalized
// listings. It is the only operation in the system that touches the network
// on the request path.
type Fetcher interface {
	Search(ctx context.Context, query string) ([]domain.Listing, error)
}
