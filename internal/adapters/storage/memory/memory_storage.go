// Package memory disponibiliza o storage padrão, em memória de processo.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

// Storage keeps sliding windows and block entries in process memory. Every
// critical section is short and never waits on I/O, so a slow upstream call
// cannot stall unrelated bookkeeping. State lives for the process lifetime
// only; loss on restart is acceptable.
type Storage struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	blocks  map[string]time.Time
	now     func() time.Time
}

var _ ports.Storage = (*Storage)(nil)

func New() *Storage {
	return NewWithClock(time.Now)
}

// NewWithClock exists for tests that need deterministic time.
func NewWithClock(now func() time.Time) *Storage {
	return &Storage{
		windows: make(map[string][]time.Time),
		blocks:  make(map[string]time.Time),
		now:     now,
	}
}

func (s *Storage) Count(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.prune(key, window))), nil
}

func (s *Storage) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := append(s.prune(key, window), s.now())
	s.windows[key] = kept
	return int64(len(kept)), nil
}

// prune drops timestamps older than the window. Caller holds the lock.
func (s *Storage) prune(key string, window time.Duration) []time.Time {
	cutoff := s.now().Add(-window)
	slice := s.windows[key]
	idx := 0
	for _, ts := range slice {
		if ts.After(cutoff) {
			slice[idx] = ts
			idx++
		}
	}
	slice = slice[:idx]
	s.windows[key] = slice
	return slice
}

func (s *Storage) IsBlocked(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.blocks[key]
	if !ok {
		return false, nil
	}
	// Expired blocks are removed lazily, on the next lookup.
	if !s.now().Before(until) {
		delete(s.blocks, key)
		return false, nil
	}
	return true, nil
}

func (s *Storage) SetBlock(_ context.Context, key string, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if duration <= 0 {
		delete(s.blocks, key)
		return nil
	}
	s.blocks[key] = s.now().Add(duration)
	return nil
}

// Sweep drops windows whose every timestamp is older than maxAge, plus
// expired blocks. Active windows still rely on prune-on-access; Sweep only
// bounds memory held by keys that never come back.
func (s *Storage) Sweep(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	for key, slice := range s.windows {
		idx := 0
		for _, ts := range slice {
			if ts.After(cutoff) {
				slice[idx] = ts
				idx++
			}
		}
		if idx == 0 {
			delete(s.windows, key)
			continue
		}
		s.windows[key] = slice[:idx]
	}

	now := s.now()
	for key, until := range s.blocks {
		if !now.Before(until) {
			delete(s.blocks, key)
		}
	}
}

// StartJanitor sweeps on the given interval until ctx is done.
func (s *Storage) StartJanitor(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(maxAge)
			}
		}
	}()
}
