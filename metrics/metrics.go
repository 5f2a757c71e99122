// Package metrics provides Prometheus metrics for the simulator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns one set of collectors. It satisfies shell.Observer.
type Recorder struct {
	registry *prometheus.Registry

	commandsTotal       *prometheus.CounterVec
	sessionsActive      prometheus.Gauge
	sessionsCreated     prometheus.Counter
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New registers the simulator's collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		commandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vfssim_commands_total",
				Help: "Total number of dispatched shell commands",
			},
			[]string{"verb", "outcome"},
		),
		sessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vfssim_sessions_active",
				Help: "Number of open browser terminal sessions",
			},
		),
		sessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vfssim_sessions_created_total",
				Help: "Total number of browser terminal sessions created",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vfssim_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vfssim_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// ObserveCommand counts one dispatched command.
func (r *Recorder) ObserveCommand(verb, outcome string) {
	r.commandsTotal.WithLabelValues(verb, outcome).Inc()
}

func (r *Recorder) SessionOpened() {
	r.sessionsCreated.Inc()
	r.sessionsActive.Inc()
}

func (r *Recorder) SessionClosed() {
	r.sessionsActive.Dec()
}

// ObserveRequest records one HTTP request. path should be the route
// pattern, not the raw URL.
func (r *Recorder) ObserveRequest(method, path string, status int, d time.Duration) {
	r.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
