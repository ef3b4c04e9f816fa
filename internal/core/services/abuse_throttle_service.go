package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

// AbuseThrottleService limita a repetição global de uma mesma query,
// independente de qual cliente a envia.
type AbuseThrottleService struct {
	storage ports.Storage
	rule    domain.AbuseRule
	logger  *zap.Logger
}

var _ ports.Throttle = (*AbuseThrottleService)(nil)

// NewAbuseThrottleService cria uma nova instância do serviço.
func NewAbuseThrottleService(storage ports.Storage, rule domain.AbuseRule, logger *zap.Logger) (*AbuseThrottleService, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if rule.Requests <= 0 || rule.Window <= 0 {
		return nil, fmt.Errorf("abuse rule must have positive values")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbuseThrottleService{storage: storage, rule: rule, logger: logger}, nil
}

// Observe records one attempt for the query and reports whether the cap is
// exceeded. The attempt is recorded even when abused, so a hammered query
// keeps tripping until its window drains.
func (s *AbuseThrottleService) Observe(ctx context.Context, normalizedQuery string) (bool, error) {
	key := fmt.Sprintf("abuse:query:%s", normalizedQuery)

	count, err := s.storage.Record(ctx, key, s.rule.Window)
	if err != nil {
		return false, err
	}
	if count > int64(s.rule.Requests) {
		s.logger.Warn("query over abuse threshold",
			zap.String("query", normalizedQuery),
			zap.Int64("requests_in_window", count))
		return true, nil
	}
	return false, nil
}
