package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup results
const (
	ResultSuccess   = "success"
	ResultFailure   = "failure"
	ResultCancelled = "cancelled"
)

// Metrics groups every collector the bot exports
type Metrics struct {
	registry *prometheus.Registry

	lookups         *prometheus.CounterVec
	lookupDuration  prometheus.Histogram
	commands        *prometheus.CounterVec
	apiRequests     *prometheus.CounterVec
	apiRequestTimes *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hutbot_lookups_total",
			Help: "The total number of server lookups per result",
		}, []string{"result"}),
		lookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hutbot_lookup_duration_seconds",
			Help:    "Time spent fetching and rendering a server lookup",
			Buckets: prometheus.DefBuckets,
		}),
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hutbot_commands_total",
			Help: "The total number of dispatched commands per command name",
		}, []string{"command"}),
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hutbot_minehut_requests_total",
			Help: "The total number of Minehut API requests per endpoint and status code",
		}, []string{"endpoint", "code"}),
		apiRequestTimes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hutbot_minehut_request_duration_seconds",
			Help:    "Minehut API request latency per endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveLookup records the outcome of one server lookup
func (m *Metrics) ObserveLookup(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.lookups.With(prometheus.Labels{"result": result}).Inc()
	m.lookupDuration.Observe(took.Seconds())
}

// ObserveCommand records a dispatched command
func (m *Metrics) ObserveCommand(command string) {
	if m == nil {
		return
	}
	m.commands.With(prometheus.Labels{"command": command}).Inc()
}

// ObserveRequest records one Minehut API request. A status code of 0 means the
// request never got a response.
func (m *Metrics) ObserveRequest(endpoint string, statusCode int, took time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.apiRequests.With(prometheus.Labels{"endpoint": endpoint, "code": code}).Inc()
	m.apiRequestTimes.With(prometheus.Labels{"endpoint": endpoint}).Observe(took.Seconds())
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
