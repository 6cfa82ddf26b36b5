package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics records calls to the remote settings backend.
type GatewayMetrics struct {
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewGatewayMetrics registers the gateway metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "theme_gateway_request_duration_seconds",
		Help:    "Duration of settings backend calls in seconds, retries included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theme_gateway_retries",
		Help: "Settings backend attempts that were retried.",
	}, []string{"endpoint"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "theme_gateway_failure",
		Help: "Settings backend calls that failed after all attempts.",
	}, []string{"endpoint"})
	reg.MustRegister(duration, retries, failure)
	return &GatewayMetrics{
		duration: duration,
		retries:  retries,
		failure:  failure,
	}
}

// ObserveDuration records the duration of one call to endpoint.
func (g *GatewayMetrics) ObserveDuration(endpoint string, duration time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	g.duration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncRetry increments the retry counter for endpoint.
func (g *GatewayMetrics) IncRetry(endpoint string) {
	if g == nil || g.retries == nil {
		return
	}
	g.retries.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

// IncFailure increments the failure counter for endpoint.
func (g *GatewayMetrics) IncFailure(endpoint string) {
	if g == nil || g.failure == nil {
		return
	}
	g.failure.WithLabelValues(normalizeLabel(endpoint)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
