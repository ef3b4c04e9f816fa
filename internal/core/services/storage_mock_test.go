package services

import (
	"context"
	"time"
)

// mockStorage is an in-memory ports.Storage with a controllable clock, shared
// by the limiter and throttle tests.
type mockStorage struct {
	now     time.Time
	windows map[string][]time.Time
	blocks  map[string]time.Time
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		now:     time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		windows: make(map[string][]time.Time),
		blocks:  make(map[string]time.Time),
	}
}

func (m *mockStorage) advance(d time.Duration) {
	m.now = m.now.Add(d)
}

func (m *mockStorage) Count(_ context.Context, key string, window time.Duration) (int64, error) {
	return int64(len(m.prune(key, window))), nil
}

func (m *mockStorage) Record(_ context.Context, key string, window time.Duration) (int64, error) {
	kept := append(m.prune(key, window), m.now)
	m.windows[key] = kept
	return int64(len(kept)), nil
}

func (m *mockStorage) prune(key string, window time.Duration) []time.Time {
	cutoff := m.now.Add(-window)
	kept := m.windows[key][:0]
	for _, ts := range m.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	m.windows[key] = kept
	return kept
}

func (m *mockStorage) IsBlocked(_ context.Context, key string) (bool, error) {
	until, ok := m.blocks[key]
	if !ok {
		return false, nil
	}
	if !m.now.Before(until) {
		delete(m.blocks, key)
		return false, nil
	}
	return true, nil
}

func (m *mockStorage) SetBlock(_ context.Context, key string, duration time.Duration) error {
	if duration <= 0 {
		delete(m.blocks, key)
		return nil
	}
	m.blocks[key] = m.now.Add(duration)
	return nil
}
