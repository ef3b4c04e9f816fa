// Package redis disponibiliza a implementação do storage baseada em Redis,
// para quando o estado de proteção precisa ser compartilhado entre instâncias.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects and pings. The same client backs both the storage and
// the result cache.
func NewClient(cfg Config) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Storage implements the sliding windows as sorted sets scored by nanosecond
// timestamps, and blocks as plain keys with a TTL.
type Storage struct {
	client *redis.Client
}

var _ ports.Storage = (*Storage)(nil)

func NewStorage(client *redis.Client) *Storage {
	return &Storage{client: client}
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Count(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoffScore(now, window))
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return card.Val(), nil
}

func (s *Storage) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", cutoffScore(now, window))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return card.Val(), nil
}

func (s *Storage) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) SetBlock(ctx context.Context, key string, duration time.Duration) error {
	if duration <= 0 {
		return s.client.Del(ctx, key).Err()
	}
	return s.client.Set(ctx, key, "1", duration).Err()
}

func cutoffScore(now time.Time, window time.Duration) string {
	return strconv.FormatInt(now.Add(-window).UnixNano(), 10)
}
