// Package metrics exposes Prometheus collectors for HTTP traffic and store
// mutations on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/diewo77/nexusmanager/httpx"
)

const namespace = "nexus"

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	MutationsTotal      *prometheus.CounterVec
}

// New builds the collectors. Go and process collectors are only registered
// when runtime is true so tests can assert on a small exposition.
func New(runtime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if runtime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)
	httpLabels := []string{"path", "method", "status"}

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			httpLabels,
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			httpLabels,
		),
		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Store mutations by entity, operation and outcome.",
			},
			[]string{"entity", "op", "outcome"},
		),
	}
}

// ObserveMutation counts one store mutation.
func (m *Metrics) ObserveMutation(entity, op, outcome string) {
	m.MutationsTotal.WithLabelValues(entity, op, outcome).Inc()
}

// Instrument wraps h, labelling its traffic with the route pattern rather
// than the raw path so ids do not explode cardinality.
func (m *Metrics) Instrument(pattern string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := httpx.NewStatusRecorder(w)
		h.ServeHTTP(rec, r)
		labels := prometheus.Labels{
			"path":   pattern,
			"method": r.Method,
			"status": strconv.Itoa(rec.Status),
		}
		m.HTTPRequestsTotal.With(labels).Inc()
		m.HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
