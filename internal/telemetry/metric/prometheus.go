// Package metric provides Prometheus metrics for respkv.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "respkv"

// Command outcome labels.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Registry holds all application metrics on a private Prometheus registry.
//
// All recording methods are safe to call on a nil *Registry, so
// components can run without metrics wired in.
type Registry struct {
	registry *prometheus.Registry

	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	ProtocolErrors  prometheus.Counter

	BuildInfo *prometheus.GaugeVec
}

// NewRegistry creates a registry with the Go and process collectors and
// all respkv metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_active",
			Help:      "Number of client connections currently being served.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted client connections.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of executed commands by command and status.",
		}, []string{"command", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution latency, excluding network I/O.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}, []string{"command"}),
		ProtocolErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Connections closed because of malformed frames.",
		}),
		BuildInfo: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information, value is always 1.",
		}, []string{"version", "commit", "go_version"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.CommandsTotal,
		r.CommandDuration,
		r.ProtocolErrors,
		r.BuildInfo,
	)

	return r
}

// Register adds an additional collector to the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.registry.Register(c)
}

// Handler returns an HTTP handler serving the registry in Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		Registry: r.registry,
	})
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records the end of a connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// RecordCommand records one executed command.
func (r *Registry) RecordCommand(command, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.CommandsTotal.WithLabelValues(command, status).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// IncProtocolErrors records a connection closed on a protocol error.
func (r *Registry) IncProtocolErrors() {
	if r == nil {
		return
	}
	r.ProtocolErrors.Inc()
}

// SetBuildInfo publishes the build information gauge.
func (r *Registry) SetBuildInfo(version, commit, goVersion string) {
	if r == nil {
		return
	}
	r.BuildInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
