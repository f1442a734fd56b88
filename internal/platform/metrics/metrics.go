// Package metrics holds the Prometheus collectors shared by the service and the batch job.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheRequests counts lookups per cache tier ("memo", "redis") and result ("hit", "miss").
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_analysis_cache_requests_total",
		Help: "Cache lookups by tier and result",
	}, []string{"tier", "result"})

	// UpstreamRequests counts provider calls by provider and outcome ("ok", "empty", "error").
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_analysis_upstream_requests_total",
		Help: "Provider requests by outcome",
	}, []string{"provider", "outcome"})

	// DroppedObservations counts rows discarded by the normalizer.
	DroppedObservations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_analysis_dropped_observations_total",
		Help: "Observations dropped during normalization",
	})

	// AnalysisDuration observes one full normalize+compute run.
	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_analysis_run_duration_seconds",
		Help:    "Time spent normalizing and computing indicators",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	})
)

// Handler exposes the default registry for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
