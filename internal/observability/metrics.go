// Package observability groups the Prometheus instruments for the chatbot
// service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Requests        *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	WSMessages      *prometheus.CounterVec
	MemoryItems     prometheus.Gauge
	ContextMessages prometheus.Histogram
	BrainLatency    prometheus.Histogram
}

// Request outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeCached      = "cached"
	OutcomeRateLimited = "rate_limited"
	OutcomeRefused     = "refused"
	OutcomeError       = "error"
)

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome.",
		}, []string{"outcome"}),
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Reply cache lookups by result.",
		}, []string{"result"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket messages by direction and type.",
		}, []string{"direction", "type"}),
		MemoryItems: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_items",
			Help:      "Number of items in the semantic memory index.",
		}),
		ContextMessages: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "context_messages",
			Help:      "Number of messages in an assembled model context.",
			Buckets:   []float64{2, 4, 8, 12, 16, 24, 32},
		}),
		BrainLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "brain_latency_ms",
			Help:      "Model backend call latency in milliseconds.",
			Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
}

func (m *Metrics) ObserveBrainLatency(d time.Duration) {
	m.BrainLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
