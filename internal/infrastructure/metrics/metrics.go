package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Model browser metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "model_browser",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "model_browser",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Search outcomes: ok, empty, diagnostic, error
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "model_browser",
			Name:      "searches_total",
			Help:      "Total catalog searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "model_browser",
			Name:      "search_rows",
			Help:      "Rows returned per catalog search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		},
	)

	// Action resolutions: existing, created, missing, error
	ActionsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "model_browser",
			Name:      "actions_resolved_total",
			Help:      "Total list action resolutions by outcome",
		},
		[]string{"outcome"},
	)

	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "model_browser",
			Name:      "auth_requests_total",
			Help:      "Total authentication attempts",
		},
		[]string{"status"},
	)
)

// RecordRequest records HTTP request metrics.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}

// RecordSearch records the outcome and size of one search.
func RecordSearch(outcome string, rows int) {
	SearchesTotal.WithLabelValues(outcome).Inc()
	SearchRows.Observe(float64(rows))
}

// RecordActionResolution records how an open request was answered.
func RecordActionResolution(outcome string) {
	ActionsResolvedTotal.WithLabelValues(outcome).Inc()
}

// RecordAuth records an authentication attempt.
func RecordAuth(status string) {
	AuthRequestsTotal.WithLabelValues(status).Inc()
}
