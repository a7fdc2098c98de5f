package hostapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality, mirroring the teacher's
// observability.go rule: request-path labels use the route pattern, never
// the raw URL, and rejection reasons are drawn from a small fixed set.
var (
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hostapi_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostapi_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	connectionRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostapi_connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hostapi_websocket_connections_active",
		Help: "Currently active event-stream WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostapi_websocket_messages_total",
		Help: "Total event-stream messages sent",
	})
)

func recordRequest(method, endpoint string, status int, seconds float64) {
	requestLatency.WithLabelValues(method, endpoint).Observe(seconds)
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

func recordConnectionRejected(reason string) {
	connectionRejectedTotal.WithLabelValues(reason).Inc()
}

func updateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

func incrementWSMessages() {
	wsMessagesTotal.Inc()
}

// metricsHandler returns the prometheus scrape handler for GET /metrics.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
