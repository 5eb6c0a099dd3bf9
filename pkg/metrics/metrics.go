// Package metrics registers the prometheus instruments the server exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SearchesTotal    *prometheus.CounterVec
	SearchErrors     prometheus.Counter
	SearchDuration   prometheus.Histogram
	AirportCacheHits prometheus.Counter
	AirportCacheMiss prometheus.Counter
	SessionsCreated  prometheus.Counter
}

func New(namespace string) *Metrics {
	return &Metrics{
		SearchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Flight searches dispatched, by trip type",
		}, []string{"trip_type"}),
		SearchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_errors_total",
			Help:      "Flight searches that completed with an error",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time from dispatch to completion of a search",
			Buckets:   prometheus.DefBuckets,
		}),
		AirportCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_cache_hits_total",
			Help:      "Airport keyword lookups served from the cache",
		}),
		AirportCacheMiss: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airport_cache_misses_total",
			Help:      "Airport keyword lookups that went to the provider",
		}),
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Result sessions created",
		}),
	}
}
