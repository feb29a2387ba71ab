package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rnagraph"

// ============================================================
// Pipeline metrics
// ============================================================

// Metrics счетчики конвейера поверх собственного реестра
type Metrics struct {
	registry *prometheus.Registry

	Uploads              *prometheus.CounterVec
	ExtractionFailures   prometheus.Counter
	DroppedEdges         *prometheus.CounterVec
	StaleResults         prometheus.Counter
	Events               *prometheus.CounterVec
	PipelineDuration     *prometheus.HistogramVec
	ActiveSessions       prometheus.Gauge
	InteractionsAttached *prometheus.CounterVec
}

// New регистрирует метрики; runtime=true добавляет go/process коллекторы
func New(runtime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if runtime {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
		)
	}

	m := &Metrics{
		registry: reg,
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded structures by outcome.",
		}, []string{"outcome"}),
		ExtractionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interaction_extraction_failures_total",
			Help:      "Annotator failures replaced by an empty interaction mapping.",
		}),
		DroppedEdges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_edges_total",
			Help:      "Interaction edges whose endpoints did not resolve to a point.",
		}, []string{"type"}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_interaction_results_total",
			Help:      "Async extraction results discarded after a newer upload.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_events_total",
			Help:      "Scene events by kind.",
		}, []string{"kind"}),
		PipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Open workspaces.",
		}),
		InteractionsAttached: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interactions_attached_total",
			Help:      "Edges turned into scene segments by type.",
		}, []string{"type"}),
	}

	reg.MustRegister(
		m.Uploads,
		m.ExtractionFailures,
		m.DroppedEdges,
		m.StaleResults,
		m.Events,
		m.PipelineDuration,
		m.ActiveSessions,
		m.InteractionsAttached,
	)
	return m
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics в формате OpenMetrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
