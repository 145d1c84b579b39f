package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. A fresh registry
// per instance keeps tests independent.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	ConfigWrites     prometheus.Counter
	ContainerActions *prometheus.CounterVec
}

// New creates the collectors on their own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shipmate_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		ConfigWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "shipmate_config_writes_total",
			Help: "Successful config file writes.",
		}),
		ContainerActions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shipmate_container_actions_total",
			Help: "Container lifecycle actions by verb and outcome.",
		}, []string{"action", "outcome"}),
	}
}

// Handler serves the /metrics endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
