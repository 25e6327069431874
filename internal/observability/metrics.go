package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtm_gateway_requests_total",
			Help: "Total number of model gateway requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	GatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gtm_gateway_request_duration_seconds",
			Help:    "Latency of model gateway requests in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"operation"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gtm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gtm_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route"},
	)

	HTTPInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gtm_http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gtm_active_sessions",
			Help: "Number of dashboard sessions held in memory",
		},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ObserveGateway records one model call.
func ObserveGateway(operation string, err error, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	GatewayRequests.WithLabelValues(operation, outcome).Inc()
	GatewayDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route, status string, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
