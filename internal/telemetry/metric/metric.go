package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all application metrics.
type Registry struct {
	// Connection metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandErrors   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Blocking metrics
	WaitersWoken    prometheus.Counter
	WaitersTimedOut prometheus.Counter

	reg *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics
// registered against a private Prometheus registry.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voltkv",
			Name:      "connections_active",
			Help:      "Number of currently open client connections.",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voltkv",
			Name:      "connections_total",
			Help:      "Total number of accepted client connections.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltkv",
			Name:      "commands_total",
			Help:      "Total number of commands processed, by command name.",
		}, []string{"command"}),
		CommandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voltkv",
			Name:      "command_errors_total",
			Help:      "Total number of commands that returned an error reply, by command name.",
		}, []string{"command"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voltkv",
			Name:      "command_duration_seconds",
			Help:      "Command handling latency, by command name.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"command"}),
		WaitersWoken: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voltkv",
			Name:      "blocked_waiters_woken_total",
			Help:      "Total number of blocked pops satisfied by a push.",
		}),
		WaitersTimedOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voltkv",
			Name:      "blocked_waiters_timedout_total",
			Help:      "Total number of blocked pops that expired without data.",
		}),
		reg: reg,
	}

	reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.CommandsTotal,
		r.CommandErrors,
		r.CommandDuration,
		r.WaitersWoken,
		r.WaitersTimedOut,
	)

	return r
}

// Register adds an extra collector (e.g., the keyspace collector) to
// the registry.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}

// Handler returns an HTTP handler serving the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gather exposes the underlying gatherer, mainly for tests.
func (r *Registry) Gather() prometheus.Gatherer {
	return r.reg
}
