package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultNamespace is used when no namespace is configured
	DefaultNamespace = "anac"
	// Subsystem for service metrics
	subsystem = "utility"
)

// Metrics owns a registry and every collector the service exposes.
// Each instance has its own registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	Commands *CommandMetricsCollector
	Utility  *UtilityMetricsCollector
	HTTP     *HTTPMetricsCollector
}

// New creates a registry with Go runtime and process collectors plus the
// service's own collectors, all registered under the namespace
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry: registry,
		Commands: NewCommandMetricsCollector(registry, namespace),
		Utility:  NewUtilityMetricsCollector(registry, namespace),
		HTTP:     NewHTTPMetricsCollector(registry, namespace),
	}
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
