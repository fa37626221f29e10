// Package metrics provides Prometheus instrumentation for verifactor.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	enabled     bool
	serviceName string

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec

	// Submission domain metrics
	submissionTotal         *prometheus.CounterVec
	verificationOutcomeTotal *prometheus.CounterVec
)

// Init initializes the metrics system.
func Init(enabledFlag bool, svcName string) {
	enabled = enabledFlag
	serviceName = svcName

	if !enabled {
		return
	}

	// HTTP request counter
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration histogram
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Submission counter
	submissionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_total",
			Help: "Total number of verification submissions relayed",
		},
		[]string{"status"},
	)

	// Verification outcome counter
	verificationOutcomeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "verification_outcome_total",
			Help: "Total number of terminal verification outcomes",
		},
		[]string{"result"},
	)

	// Note: Go runtime metrics (goroutines, memory, GC) are automatically
	// collected by prometheus/client_golang - no custom collector needed
}

// RecordSubmission counts a relayed submission by its initial status.
func RecordSubmission(status string) {
	if !enabled {
		return
	}
	submissionTotal.WithLabelValues(status).Inc()
}

// RecordVerificationOutcome counts a terminal verification result.
func RecordVerificationOutcome(result string) {
	if !enabled {
		return
	}
	verificationOutcomeTotal.WithLabelValues(result).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	if !enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.Handler()
}

// Enabled returns whether metrics are enabled.
func Enabled() bool {
	return enabled
}

// ServiceName returns the configured service name for metric labels.
func ServiceName() string {
	return serviceName
}
