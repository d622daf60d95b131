package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "ragewatch"

// Metrics holds the Prometheus instruments for the HTTP surface and the
// aggregation layer.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests         *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	degradedSubResources *prometheus.CounterVec
	mutationFailures     *prometheus.CounterVec
}

// NewMetrics constructs the metric set on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by route, method, and status.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		degradedSubResources: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "aggregate_degraded_total",
			Help:      "Game aggregations where an optional sub-resource fell back to its empty default.",
		}, []string{"sub_resource"}),
		mutationFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mutation_failures_total",
			Help:      "Account store mutations that failed and were surfaced to the visitor.",
		}, []string{"mutation"}),
	}
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObserveDegraded counts optional sub-resources that degraded to defaults.
func (m *Metrics) ObserveDegraded(subResources []string) {
	for _, name := range subResources {
		m.degradedSubResources.WithLabelValues(name).Inc()
	}
}

// ObserveMutationFailure counts one surfaced mutation failure.
func (m *Metrics) ObserveMutationFailure(mutation string) {
	m.mutationFailures.WithLabelValues(mutation).Inc()
}
