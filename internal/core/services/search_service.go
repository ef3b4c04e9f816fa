package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
	"github.com/sanjux-xx/pricescout/internal/metrics"
)

const defaultFetchTimeout = 10 * time.Second

// categoryQueries mapeia as categorias fixas para a frase base de busca.
var categoryQueries = map[string]string{
	"groceries":   "grocery essentials",
	"electronics": "electronics deals",
	"fashion":     "fashion clothing",
	"food":        "packaged food",
}

// SearchRequest carries one inbound product search.
type SearchRequest struct {
	Query    string
	Brand    string
	Weight   string
	ClientID string
}

// SearchService orquestra o pipeline protegido de busca: validação, rate
// limiting, abuse throttle, cache, busca externa e pós-processamento.
type SearchService struct {
	limiter      ports.RateLimiter
	throttle     ports.Throttle
	cache        ports.ResultCache
	fetcher      ports.Fetcher
	telemetry    ports.Telemetry
	metrics      *metrics.Metrics
	logger       *zap.Logger
	fetchTimeout time.Duration
}

// NewSearchService cria uma nova instância do serviço.
func NewSearchService(
	limiter ports.RateLimiter,
	throttle ports.Throttle,
	cache ports.ResultCache,
	fetcher ports.Fetcher,
	telemetry ports.Telemetry,
	mtr *metrics.Metrics,
	logger *zap.Logger,
) (*SearchService, error) {
	if limiter == nil || throttle == nil || cache == nil || fetcher == nil {
		return nil, fmt.Errorf("limiter, throttle, cache and fetcher are required")
	}
	if mtr == nil {
		return nil, fmt.Errorf("metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchService{
		limiter:      limiter,
		throttle:     throttle,
		cache:        cache,
		fetcher:      fetcher,
		telemetry:    telemetry,
		metrics:      mtr,
		logger:       logger,
		fetchTimeout: defaultFetchTimeout,
	}, nil
}

// SetFetchTimeout overrides the upstream timeout. Zero or negative values
// keep the default.
func (s *SearchService) SetFetchTimeout(d time.Duration) {
	if d > 0 {
		s.fetchTimeout = d
	}
}

// Search runs the full pipeline and returns display-ready listings. Soft
// denials come back as the sentinel errors from the domain package; only
// infrastructure failures come back as anything else. Upstream failures are
// reported out of band and surface as an empty result set.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]domain.Listing, error) {
	s.metrics.Searches.Inc()

	query := buildQuery(req.Query, req.Brand, req.Weight)
	if !ValidQuery(query) {
		s.metrics.ValidationRejects.Inc()
		return nil, domain.ErrInvalidQuery
	}
	normalized := NormalizeQuery(query)

	if err := s.limiter.Allow(ctx, req.ClientID); err != nil {
		switch {
		case errors.Is(err, domain.ErrBlocked):
			s.metrics.Blocked.Inc()
		case errors.Is(err, domain.ErrRateLimited):
			s.metrics.RateLimited.Inc()
		default:
			return nil, err
		}
		s.logger.Info("search denied",
			zap.String("client_id", req.ClientID),
			zap.String("query", normalized),
			zap.String("reason", err.Error()))
		return nil, err
	}

	abused, err := s.throttle.Observe(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if abused {
		s.metrics.QueryAbused.Inc()
		return nil, domain.ErrQueryAbused
	}

	listings, hit, err := s.cache.Get(ctx, normalized)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("query", normalized), zap.Error(err))
		hit = false
	}
	if hit {
		s.metrics.CacheHits.Inc()
	} else {
		s.metrics.CacheMisses.Inc()
		listings = s.fetchAndStore(ctx, normalized, req.ClientID)
	}

	listings = FilterByWeight(listings, req.Weight)
	SortByPrice(listings)
	return listings, nil
}

// SearchCategory resolves a category key to its base query phrase and runs a
// regular search. Unknown keys fall back to using the raw key as the query.
func (s *SearchService) SearchCategory(ctx context.Context, categoryKey, term, clientID string) ([]domain.Listing, error) {
	key := strings.ToLower(strings.TrimSpace(categoryKey))
	base, ok := categoryQueries[key]
	if !ok {
		base = key
	}
	return s.Search(ctx, SearchRequest{Query: base, Brand: term, ClientID: clientID})
}

// fetchAndStore performs the upstream call and caches the result. The fetch
// runs detached from the request cancel, so a caller that disconnects still
// populates the cache for the next one; the timeout bounds it instead.
func (s *SearchService) fetchAndStore(ctx context.Context, normalizedQuery, clientID string) []domain.Listing {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	listings, err := s.fetcher.Search(fetchCtx, normalizedQuery)
	if err != nil {
		s.metrics.UpstreamErrors.Inc()
		if s.telemetry != nil {
			s.telemetry.ReportError(ctx, ports.ErrorReport{Err: err, Query: normalizedQuery, ClientID: clientID})
		}
		s.logger.Error("upstream search failed",
			zap.String("query", normalizedQuery),
			zap.String("client_id", clientID),
			zap.Error(err))
		return nil
	}

	if err := s.cache.Put(fetchCtx, normalizedQuery, listings); err != nil {
		s.logger.Warn("cache write failed", zap.String("query", normalizedQuery), zap.Error(err))
	}
	return listings
}

// buildQuery joins the non-empty search terms with single spaces, the same
// way the search form composes product, brand and weight.
func buildQuery(parts ...string) string {
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return strings.Join(fields, " ")
}
