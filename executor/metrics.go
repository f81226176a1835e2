package executor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// prometheusMetrics tracks run state from the single-threaded dispatch
// loop: queue depth, per-node step latency, checkpoint counts and warning
// counts. A retries_total counter is registered as well, but the dispatch
// loop never increments it. Namespaced "flowgraph_".
type prometheusMetrics struct {
	mu sync.Mutex

	queueDepth  prometheus.Gauge
	stepLatency *prometheus.HistogramVec
	retries     *prometheus.CounterVec
	checkpoints *prometheus.CounterVec
	warnings    *prometheus.CounterVec

	enabled bool
}

func newPrometheusMetrics(registry prometheus.Registerer) *prometheusMetrics {
	if registry == nil {
		return &prometheusMetrics{enabled: false}
	}

	factory := promauto.With(registry)
	return &prometheusMetrics{
		enabled: true,
		queueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowgraph",
			Name:      "queue_depth",
			Help:      "Current number of work items waiting in the executor frontier.",
		}),
		stepLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowgraph",
			Name:      "step_latency_ms",
			Help:      "Node execution duration in milliseconds.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node_id", "status"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "retries_total",
			Help:      "Cumulative retry attempts across all Retry exception nodes.",
		}, []string{"node_id"}),
		checkpoints: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "checkpoints_total",
			Help:      "Checkpoints saved, labeled by checkpoint type.",
		}, []string{"checkpoint_type"}),
		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "warnings_total",
			Help:      "Diagnostic warnings, labeled by reason (iteration ceiling).",
		}, []string{"reason"}),
	}
}

func (m *prometheusMetrics) setQueueDepth(n int) {
	if !m.enabled {
		return
	}
	m.queueDepth.Set(float64(n))
}

func (m *prometheusMetrics) observeStep(nodeID, status string, ms float64) {
	if !m.enabled {
		return
	}
	m.stepLatency.WithLabelValues(nodeID, status).Observe(ms)
}

func (m *prometheusMetrics) incRetry(nodeID string) {
	if !m.enabled {
		return
	}
	m.retries.WithLabelValues(nodeID).Inc()
}

func (m *prometheusMetrics) incCheckpoint(checkpointType string) {
	if !m.enabled {
		return
	}
	m.checkpoints.WithLabelValues(checkpointType).Inc()
}

func (m *prometheusMetrics) incWarning(reason string) {
	if !m.enabled {
		return
	}
	m.warnings.WithLabelValues(reason).Inc()
}
