// Package metrics exposes Prometheus metrics for outbound service calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts outbound requests by service, method and outcome.
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartcity",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of outbound API requests",
		},
		[]string{"service", "method", "status"},
	)

	// RequestDuration tracks outbound request latency by service and method.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartcity",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Outbound API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)

	// FetchCounter counts aggregate fetches by outcome.
	FetchCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartcity",
			Subsystem: "client",
			Name:      "aggregate_fetches_total",
			Help:      "Total number of aggregate fetch cycles",
		},
		[]string{"status"},
	)
)

// ObserveRequest records a completed outbound request.
func ObserveRequest(service, method, status string, duration time.Duration) {
	RequestCounter.WithLabelValues(service, method, status).Inc()
	RequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}
