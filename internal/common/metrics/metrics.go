// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"status"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "recommend_request_duration_seconds",
			Help: "Duration of recommendation request processing in seconds",
		},
		[]string{"status"},
	)

	RecommendResultCount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_result_count",
			Help:    "Number of assessments returned per recommendation request",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_requests_total",
			Help: "Result cache lookups partitioned by outcome",
		},
		[]string{"outcome"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_assessments_loaded",
			Help: "Number of assessment records currently loaded",
		},
	)
)
