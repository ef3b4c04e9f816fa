// Package services implementa a lógica central da camada de proteção.
package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

// RateLimiterService implementa o rate limiting por cliente: janela deslizante
// mais bloqueio temporário de quem excede o limite.
type RateLimiterService struct {
	storage ports.Storage
	rule    domain.RateLimitRule
	logger  *zap.Logger
}

var _ ports.RateLimiter = (*RateLimiterService)(nil)

// NewRateLimiterService cria uma nova instância do serviço.
func NewRateLimiterService(storage ports.Storage, rule domain.RateLimitRule, logger *zap.Logger) (*RateLimiterService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if rule.Requests <= 0 || rule.Window <= 0 || rule.BlockDuration <= 0 {
		return nil, fmt.Errorf("rate limit rule must have positive values")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiterService{storage: storage, rule: rule, logger: logger}, nil
}

// Allow avalia se o cliente pode disparar mais uma busca. A client sitting
// exactly at the threshold is denied and promoted to a temporary block; a
// client already blocked is denied without touching its window.
func (s *RateLimiterService) Allow(ctx context.Context, clientID string) error {
	keys := buildClientKeys(clientID)

	blocked, err := s.storage.IsBlocked(ctx, keys.block)
	if err != nil {
		return err
	}
	if blocked {
		return domain.ErrBlocked
	}

	count, err := s.storage.Count(ctx, keys.counter, s.rule.Window)
	if err != nil {
		return err
	}
	if count >= int64(s.rule.Requests) {
		if setErr := s.storage.SetBlock(ctx, keys.block, s.rule.BlockDuration); setErr != nil {
			return setErr
		}
		s.logger.Warn("client promoted to block",
			zap.String("client_id", keys.identifier),
			zap.Int64("requests_in_window", count),
			zap.Duration("block_duration", s.rule.BlockDuration))
		return domain.ErrRateLimited
	}

	if _, err := s.storage.Record(ctx, keys.counter, s.rule.Window); err != nil {
		return err
	}
	return nil
}

type clientKeys struct {
	counter    string
	block      string
	identifier string
}

func buildClientKeys(clientID string) clientKeys {
	identifier := strings.ToLower(strings.TrimSpace(clientID))
	return clientKeys{
		counter:    fmt.Sprintf("ratelimit:ip:%s", identifier),
		block:      fmt.Sprintf("ratelimit:ip:%s:block", identifier),
		identifier: identifier,
	}
}
