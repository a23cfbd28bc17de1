package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetricsCollector handles metrics for the service's HTTP endpoints
type HTTPMetricsCollector struct {
	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
}

// NewHTTPMetricsCollector creates the collector and registers it
func NewHTTPMetricsCollector(reg prometheus.Registerer, namespace string) *HTTPMetricsCollector {
	factory := promauto.With(reg)

	return &HTTPMetricsCollector{
		// Total requests by method, route pattern and status code
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status_code"},
		),

		// Request duration histogram
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration distribution",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 20.0},
			},
			[]string{"method", "route"},
		),

		// Requests refused by the rate limiter
		rateLimited: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "http_rate_limited_total",
				Help:      "Total number of HTTP requests rejected by the rate limiter",
			},
			[]string{"method", "route"},
		),
	}
}

// RecordRequest records an HTTP request completion
func (c *HTTPMetricsCollector) RecordRequest(
	method string,
	route string,
	statusCode int,
	duration float64,
) {
	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordRateLimited records a request the rate limiter turned away
func (c *HTTPMetricsCollector) RecordRateLimited(method string, route string) {
	c.rateLimited.WithLabelValues(method, route).Inc()
}
