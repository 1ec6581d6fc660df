package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the analysis pipeline
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal    prometheus.Counter
	AnalysisDuration prometheus.Histogram
	SweepsTotal      prometheus.Counter
	AlertsCreated    *prometheus.CounterVec
	OptimizationRuns prometheus.Counter
	AnomaliesFlagged *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fleetsight",
			Name:      "truck_analyses_total",
			Help:      "Number of per-truck health analyses performed",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fleetsight",
			Name:      "truck_analysis_duration_seconds",
			Help:      "Latency of per-truck health analyses",
			Buckets:   prometheus.DefBuckets,
		}),
		SweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fleetsight",
			Name:      "fleet_sweeps_total",
			Help:      "Number of fleet-wide alert sweeps completed",
		}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetsight",
			Name:      "alerts_created_total",
			Help:      "Predictive alerts created, by severity",
		}, []string{"severity"}),
		OptimizationRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fleetsight",
			Name:      "optimization_runs_total",
			Help:      "Number of fleet optimization runs",
		}),
		AnomaliesFlagged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetsight",
			Name:      "sensor_anomalies_total",
			Help:      "Sensor readings flagged anomalous, by sensor type",
		}, []string{"sensor_type"}),
	}

	registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.SweepsTotal,
		m.AlertsCreated,
		m.OptimizationRuns,
		m.AnomaliesFlagged,
	)

	return m
}

// Handler exposes the registry for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
