// Package metrics exposes Prometheus collectors for the sync loop and the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"laundry-reservation/internal/model"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Polls           *prometheus.CounterVec
	PollDuration    prometheus.Histogram
	BreakerState    prometheus.Gauge
	Machines        *prometheus.GaugeVec
	GatewayRequests *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Name:      "sync_polls_total",
			Help:      "Backend polls by target and result.",
		}, []string{"target", "result"}),
		PollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "laundry",
			Name:      "sync_poll_duration_seconds",
			Help:      "Duration of a full poll cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "laundry",
			Name:      "sync_breaker_state",
			Help:      "Poll circuit breaker state (0 closed, 1 half-open, 2 open).",
		}),
		Machines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "laundry",
			Name:      "machines",
			Help:      "Machines by derived status.",
		}, []string{"status"}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "laundry",
			Name:      "gateway_requests_total",
			Help:      "Gateway requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
	reg.MustRegister(
		m.Polls, m.PollDuration, m.BreakerState, m.Machines, m.GatewayRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// SetMachineCounts overwrites the per-status machine gauge.
func (m *Metrics) SetMachineCounts(counts map[model.MachineStatus]int) {
	for _, s := range []model.MachineStatus{model.MachineAvailable, model.MachineInUse, model.MachineReserved, model.MachineBroken} {
		m.Machines.WithLabelValues(string(s)).Set(float64(counts[s]))
	}
}

// Registry returns the underlying registry, for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
