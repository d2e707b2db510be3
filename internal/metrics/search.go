package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Spatial search and moderation Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Spatial search duration in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode", "status"},
	)

	SearchCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates",
			Help:      "Records returned by the geo index before the exact predicate",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"mode"},
	)

	SearchMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Records satisfying the full predicate, before pagination",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"mode"},
	)

	ModerationActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Moderation log entries written, by action",
		},
		[]string{"action"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and moderation metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCandidates)
	prometheus.MustRegister(SearchMatches)
	prometheus.MustRegister(ModerationActionsTotal)
	searchMetricsRegistered = true
}

// ObserveSearch records one search execution.
func ObserveSearch(mode string, start time.Time, candidates, matches int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SearchDuration.WithLabelValues(mode, status).Observe(time.Since(start).Seconds())
	if err != nil {
		return
	}
	SearchCandidates.WithLabelValues(mode).Observe(float64(candidates))
	SearchMatches.WithLabelValues(mode).Observe(float64(matches))
}
