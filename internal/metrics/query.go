package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query building outcomes.
const (
	ResultOK          = "ok"
	ResultParseError  = "parse_error"
	ResultConfigError = "config_error"
	ResultError       = "error"
)

// Query Prometheus metrics.
var (
	QueryBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "query_builds_total",
			Help:      "Total number of filter query builds",
		},
		[]string{"view", "strategy", "result"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sieve",
			Name:      "search_duration_seconds",
			Help:      "Backend search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"view"},
	)

	SearchHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sieve",
			Name:      "search_hits_total",
			Help:      "Total number of hits returned to callers",
		},
		[]string{"view"},
	)
)

var registerQueryOnce sync.Once

// RegisterQueryMetrics registers the query metrics with the default registry.
// Safe to call more than once.
func RegisterQueryMetrics() {
	registerQueryOnce.Do(func() {
		prometheus.MustRegister(QueryBuildsTotal, SearchDuration, SearchHitsTotal)
	})
}
