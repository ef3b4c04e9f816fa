// Package metrics expõe contadores Prometheus da camada de proteção.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the counters of the search pipeline. Create one per process
// with New and inject it where the events happen.
type Metrics struct {
	Searches          prometheus.Counter
	ValidationRejects prometheus.Counter
	RateLimited       prometheus.Counter
	Blocked           prometheus.Counter
	QueryAbused       prometheus.Counter
	CacheHits         prometheus.Counter
	CacheMisses       prometheus.Counter
	UpstreamErrors    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Searches: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_searches_total",
			Help: "Inbound product searches, before any gate.",
		}),
		ValidationRejects: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_validation_rejects_total",
			Help: "Searches rejected by query validation.",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_rate_limited_total",
			Help: "Searches denied at the moment a client crossed the rate limit.",
		}),
		Blocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_blocked_total",
			Help: "Searches denied while a client was serving a block.",
		}),
		QueryAbused: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_query_abused_total",
			Help: "Searches denied by the per-query abuse throttle.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_cache_hits_total",
			Help: "Result cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_cache_misses_total",
			Help: "Result cache misses that triggered an upstream fetch.",
		}),
		UpstreamErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "pricescout_upstream_errors_total",
			Help: "Failed calls to the shopping search provider.",
		}),
	}
}
