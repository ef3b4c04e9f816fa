// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import "context"

// RateLimiter decides whether a client may trigger another search. A nil
// return means allowed; denials come back as domain.ErrRateLimited or
// domain.ErrBlocked.
type RateLimiter interface {
	Allow(ctx context.Context, clientID string) error
}

// Throttle counts system-wide repetitions of one normalized query. Observe
// always records the attempt, even when it reports abuse.
type Throttle interface {
	Observe(ctx context.Context, normalizedQuery string) (abused bool, err error)
}
