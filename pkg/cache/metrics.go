package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PolicyHits tracks cached reads served from the store, by namespace
	PolicyHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_hits_total",
			Help: "Total number of cached reads served from the cache store",
		},
		[]string{"namespace"},
	)

	// PolicyMisses tracks cached reads that fell through to the loader
	PolicyMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_misses_total",
			Help: "Total number of cached reads that fell through to the database loader",
		},
		[]string{"namespace"},
	)

	// PolicyErrors tracks degraded cache store operations (fail-open path)
	PolicyErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_errors_total",
			Help: "Total number of cache store errors degraded to miss/no-op",
		},
		[]string{"operation"}, // "get", "set", "delete", "delete_namespace", "prime"
	)

	// PolicyInvalidations tracks invalidation operations, by namespace
	PolicyInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_invalidations_total",
			Help: "Total number of cache invalidations issued after mutations",
		},
		[]string{"namespace"},
	)

	// PolicyPrimes tracks entries written with known-fresh values after writes
	PolicyPrimes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cache_primes_total",
			Help: "Total number of cache entries primed with fresh values after mutations",
		},
		[]string{"namespace"},
	)
)
