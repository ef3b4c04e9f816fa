package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

// ResultCache stores listings as JSON under the normalized query, expiring
// through Redis' own TTL instead of an age check on read.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.ResultCache = (*ResultCache)(nil)

func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

func (c *ResultCache) Get(ctx context.Context, normalizedQuery string) ([]domain.Listing, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(normalizedQuery)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var listings []domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, false, fmt.Errorf("decode cached listings: %w", err)
	}
	return listings, true, nil
}

func (c *ResultCache) Put(ctx context.Context, normalizedQuery string, listings []domain.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("encode listings: %w", err)
	}
	return c.client.Set(ctx, cacheKey(normalizedQuery), data, c.ttl).Err()
}

func cacheKey(normalizedQuery string) string {
	return fmt.Sprintf("cache:query:%s", normalizedQuery)
}
