// Package ports define contratos que conectam o domínio a implementações externas.
package ports

import (
	"context"
	"time"
)

// Storage keeps the sliding windows and block entries of the protection
// layer. Implementations prune timestamps older than the window on every
// call, so a window never reports events outside its duration.
type Storage interface {
	// Count prunes the window for key and returns how many events remain.
	// It never records anything.
	Count(ctx context.Context, key string, window time.Duration) (int64, error)
	// Record appends the current instant to the window for key and returns
	// the count after the append.
	Record(ctx context.Context, key string, window time.Duration) (int64, error)
	IsBlocked(ctx context.Context, key string) (bool, error)
	SetBlock(ctx context.Context, key string, duration time.Duration) error
}
