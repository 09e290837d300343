// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gymwars"

// Metrics holds the counters recorded by handlers and services. A nil
// *Metrics records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	registrations      *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	leaderboardWrites  *prometheus.CounterVec
	adminAuthFailures  prometheus.Counter
	publishFailures    prometheus.Counter
}

// New registers the counters on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Accepted form submissions by form.",
		}, []string{"form"}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Rejected form submissions by form.",
		}, []string{"form"}),
		leaderboardWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_writes_total",
			Help:      "Leaderboard collection rewrites by operation.",
		}, []string{"op"}),
		adminAuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_auth_failures_total",
			Help:      "Admin requests rejected for a missing or wrong token.",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_publish_failures_total",
			Help:      "Notification events that could not be published.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.registrations,
		m.validationFailures,
		m.leaderboardWrites,
		m.adminAuthFailures,
		m.publishFailures,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registration(form string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(form).Inc()
}

func (m *Metrics) ValidationFailure(form string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(form).Inc()
}

func (m *Metrics) LeaderboardWrite(op string) {
	if m == nil {
		return
	}
	m.leaderboardWrites.WithLabelValues(op).Inc()
}

func (m *Metrics) AdminAuthFailure() {
	if m == nil {
		return
	}
	m.adminAuthFailures.Inc()
}

func (m *Metrics) PublishFailure() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}
