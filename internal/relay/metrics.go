package relay

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the relay's Prometheus collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	chatRequests     *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		chatRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyflow_relay_chat_requests_total",
				Help: "Chat requests handled by the relay, by HTTP status code",
			},
			[]string{"code"},
		),
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studyflow_relay_upstream_requests_total",
				Help: "Upstream provider calls, by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studyflow_relay_upstream_duration_seconds",
				Help:    "Upstream provider call latency",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}

	m.registry.MustRegister(
		m.chatRequests,
		m.upstreamRequests,
		m.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) recordChat(code string) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(code).Inc()
}

func (m *Metrics) recordUpstream(provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	if elapsed > 0 {
		m.upstreamDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	}
}
