package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjux-xx/pricescout/internal/core/domain"
	"github.com/sanjux-xx/pricescout/internal/core/ports"
	"github.com/sanjux-xx/pricescout/internal/metrics"
)

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) error { return nil }

type denyLimiter struct{ err error }

func (d denyLimiter) Allow(context.Context, string) error { return d.err }

type noThrottle struct{}

func (noThrottle) Observe(context.Context, string) (bool, error) { return false, nil }

type abusedThrottle struct{}

func (abusedThrottle) Observe(context.Context, string) (bool, error) { return true, nil }

// spyFetcher counts calls and records the queries it saw.
type spyFetcher struct {
	calls    int
	queries  []string
	listings []domain.Listing
	err      error
}

func (f *spyFetcher) Search(_ context.Context, query string) ([]domain.Listing, error) {
	f.calls++
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

// spyCache is a plain map cache that records the keys used.
type spyCache struct {
	entries map[string][]domain.Listing
	getKeys []string
	putKeys []string
}

func newSpyCache() *spyCache {
	return &spyCache{entries: make(map[string][]domain.Listing)}
}

func (c *spyCache) Get(_ context.Context, key string) ([]domain.Listing, bool, error) {
	c.getKeys = append(c.getKeys, key)
	listings, ok := c.entries[key]
	return listings, ok, nil
}

func (c *spyCache) Put(_ context.Context, key string, listings []domain.Listing) error {
	c.putKeys = append(c.putKeys, key)
	c.entries[key] = listings
	return nil
}

type spyTelemetry struct {
	reports []ports.ErrorReport
}

func (t *spyTelemetry) ReportError(_ context.Context, report ports.ErrorReport) {
	t.reports = append(t.reports, report)
}

type searchFixture struct {
	service   *SearchService
	fetcher   *spyFetcher
	cache     *spyCache
	telemetry *spyTelemetry
}

func newSearchFixture(t *testing.T, limiter ports.RateLimiter, throttle ports.Throttle) *searchFixture {
	t.Helper()

	fetcher := &spyFetcher{}
	cache := newSpyCache()
	tel := &spyTelemetry{}

	service, err := NewSearchService(
		limiter, throttle, cache, fetcher, tel,
		metrics.New(prometheus.NewRegistry()), nil,
	)
	require.NoError(t, err)

	return &searchFixture{service: service, fetcher: fetcher, cache: cache, telemetry: tel}
}

func TestSearch_InvalidQueryNeverReachesUpstream(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})

	for _, query := range []string{"", "tv", "milk<script>"} {
		_, err := fx.service.Search(context.Background(), SearchRequest{Query: query, ClientID: "1.2.3.4"})
		assert.ErrorIs(t, err, domain.ErrInvalidQuery, "query %q", query)
	}

	assert.Zero(t, fx.fetcher.calls, "the fetcher must never be called for invalid input")
	assert.Empty(t, fx.cache.getKeys, "validation must run before the cache lookup")
}

func TestSearch_CacheMissFetchesAndStores(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})
	fx.fetcher.listings = []domain.Listing{{Title: "Amul Milk", Price: "₹250"}}

	listings, err := fx.service.Search(context.Background(), SearchRequest{Query: "amul milk", ClientID: "1.2.3.4"})
	require.NoError(t, err)
	require.Len(t, listings, 1)

	assert.Equal(t, 1, fx.fetcher.calls)
	assert.Equal(t, []string{"amul milk"}, fx.cache.putKeys)
}

func TestSearch_CacheHitSkipsUpstream(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})
	fx.cache.entries["amul milk"] = []domain.Listing{{Title: "Amul Milk", Price: "₹250"}}

	listings, err := fx.service.Search(context.Background(), SearchRequest{Query: "amul milk", ClientID: "1.2.3.4"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Zero(t, fx.fetcher.calls)
}

func TestSearch_NormalizesCacheKey(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})
	fx.fetcher.listings = []domain.Listing{{Title: "Milk", Price: "₹50"}}

	_, err := fx.service.Search(context.Background(), SearchRequest{Query: "Amul Milk ", ClientID: "a"})
	require.NoError(t, err)
	_, err = fx.service.Search(context.Background(), SearchRequest{Query: "amul milk", ClientID: "b"})
	require.NoError(t, err)

	assert.Equal(t, 1, fx.fetcher.calls, "case and whitespace variants must share one cache entry")
	assert.Equal(t, []string{"amul milk", "amul milk"}, fx.cache.getKeys)
}

func TestSearch_RateLimitDenialsPropagate(t *testing.T) {
	for _, sentinel := range []error{domain.ErrRateLimited, domain.ErrBlocked} {
		fx := newSearchFixture(t, denyLimiter{err: sentinel}, noThrottle{})

		_, err := fx.service.Search(context.Background(), SearchRequest{Query: "amul milk", ClientID: "1.2.3.4"})
		assert.ErrorIs(t, err, sentinel)
		assert.Zero(t, fx.fetcher.calls)
	}
}

func TestSearch_AbusedQueryDenied(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, abusedThrottle{})

	_, err := fx.service.Search(context.Background(), SearchRequest{Query: "amul milk", ClientID: "1.2.3.4"})
	assert.ErrorIs(t, err, domain.ErrQueryAbused)
	assert.Zero(t, fx.fetcher.calls)
}

func TestSearch_UpstreamFailureIsSoft(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})
	fx.fetcher.err = fmt.Errorf("connection reset")

	listings, err := fx.service.Search(context.Background(), SearchRequest{Query: "amul milk", ClientID: "1.2.3.4"})
	require.NoError(t, err, "upstream failures must not surface as request errors")
	assert.Empty(t, listings)

	require.Len(t, fx.telemetry.reports, 1)
	assert.Equal(t, "amul milk", fx.telemetry.reports[0].Query)
	assert.Equal(t, "1.2.3.4", fx.telemetry.reports[0].ClientID)
	assert.Empty(t, fx.cache.putKeys, "failed fetches must not poison the cache")
}

func TestSearch_CombinesTermsAndPostprocesses(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})
	fx.fetcher.listings = []domain.Listing{
		{Title: "Amul Milk 1 Kg", Price: "₹1,200"},
		{Title: "Amul Milk 2kg", Price: "₹99"},
		{Title: "Amul Milk 1kg Fresh", Price: "₹250"},
	}

	listings, err := fx.service.Search(context.Background(), SearchRequest{
		Query:    "milk",
		Brand:    "amul",
		Weight:   "1kg",
		ClientID: "1.2.3.4",
	})
	require.NoError(t, err)

	// Terms join into one upstream query.
	require.Equal(t, []string{"milk amul 1kg"}, fx.fetcher.queries)

	// The 2kg listing is filtered out and the rest sorts by price ascending.
	require.Len(t, listings, 2)
	assert.Equal(t, "Amul Milk 1kg Fresh", listings[0].Title)
	assert.Equal(t, "Amul Milk 1 Kg", listings[1].Title)
}

func TestSearchCategory_KnownAndUnknownKeys(t *testing.T) {
	fx := newSearchFixture(t, allowAllLimiter{}, noThrottle{})

	_, err := fx.service.SearchCategory(context.Background(), "Groceries", "", "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "grocery essentials", fx.fetcher.queries[0])

	// Unknown keys fall back to the raw key as the query.
	_, err = fx.service.SearchCategory(context.Background(), "toys", "wooden", "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, "toys wooden", fx.fetcher.queries[1])
}

func TestSearch_FetchContextOutlivesCaller(t *testing.T) {
	cache := newSpyCache()
	fetcher := &cancelCheckFetcher{}
	service, err := NewSearchService(
		allowAllLimiter{}, noThrottle{}, cache, fetcher, &spyTelemetry{},
		metrics.New(prometheus.NewRegistry()), nil,
	)
	require.NoError(t, err)
	service.SetFetchTimeout(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the caller is already gone

	_, err = service.Search(ctx, SearchRequest{Query: "amul milk", ClientID: "1.2.3.4"})
	require.NoError(t, err)
	assert.False(t, fetcher.sawCancel, "a disconnected caller must not abort the fetch")
	assert.Equal(t, []string{"amul milk"}, cache.putKeys, "the result must still populate the cache")
}

type cancelCheckFetcher struct {
	sawCancel bool
}

func (f *cancelCheckFetcher) Search(ctx context.Context, _ string) ([]domain.Listing, error) {
	select {
	case <-ctx.Done():
		f.sawCancel = true
	default:
	}
	return []domain.Listing{{Title: "Milk", Price: "₹50"}}, nil
}
