// Package metrics exposes Prometheus counters for configuration reloads and
// federation metadata fetches.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "openflow"

// Metrics owns a private registry so tests and multiple app instances do not
// collide on the global one.
type Metrics struct {
	registry      *prometheus.Registry
	reloads       prometheus.Counter
	fetchAttempts *prometheus.CounterVec
	buildInfo     *prometheus.GaugeVec
}

// New registers the service collectors plus the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_reloads_total",
			Help:      "Number of times settings were reloaded from the environment.",
		}),
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "federation_metadata_fetch_attempts_total",
			Help:      "Federation metadata fetch attempts by outcome.",
		}, []string{"outcome"}),
		buildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Always 1, labelled with the running version.",
		}, []string{"version"}),
	}
	m.registry.MustRegister(
		m.reloads,
		m.fetchAttempts,
		m.buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveFetchAttempt counts one federation metadata fetch attempt.
func (m *Metrics) ObserveFetchAttempt(outcome string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(outcome).Inc()
}

// ObserveReload counts one settings reload.
func (m *Metrics) ObserveReload() {
	if m == nil {
		return
	}
	m.reloads.Inc()
}

// SetVersion replaces the build_info series with one for version.
func (m *Metrics) SetVersion(version string) {
	if m == nil {
		return
	}
	m.buildInfo.Reset()
	m.buildInfo.WithLabelValues(version).Set(1)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
