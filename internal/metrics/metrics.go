// Package metrics holds the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Extractions counts extraction attempts by result ("ok" or "error").
	Extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokgrab_extractions_total",
		Help: "Extraction attempts by result.",
	}, []string{"result"})

	// CacheHits counts extraction requests served from the TTL cache.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokgrab_cache_hits_total",
		Help: "Extraction requests served from the cache.",
	})

	// CacheMisses counts extraction requests that went upstream.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokgrab_cache_misses_total",
		Help: "Extraction requests that required an upstream call.",
	})

	// Downloads counts delivery requests by quality tier.
	Downloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokgrab_downloads_total",
		Help: "Download requests by quality tier.",
	}, []string{"quality"})
)
