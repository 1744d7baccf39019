package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	quotes        *prometheus.CounterVec
	lastScore     prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regnav",
			Name:      "runs_total",
			Help:      "Evaluation runs by outcome.",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "regnav",
			Name:      "stage_duration_seconds",
			Help:      "Time spent reaching each pipeline stage.",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 5, 15, 30, 60, 120},
		}, []string{"stage"}),
		quotes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "regnav",
			Name:      "quotes_located_total",
			Help:      "Evidence quotes by the locator strategy that found them (none when unlocated).",
		}, []string{"strategy"}),
		lastScore: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "regnav",
			Name:      "last_score",
			Help:      "Readiness score of the most recent successful run.",
		}),
	}
}

// Registry exposes the collectors for an HTTP handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the current values in the node_exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeStage(stage Stage, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(string(stage)).Observe(d.Seconds())
}

func (m *Metrics) quoteLocated(strategy string) {
	if m == nil {
		return
	}
	if strategy == "" {
		strategy = "none"
	}
	m.quotes.WithLabelValues(strategy).Inc()
}

func (m *Metrics) runFinished(outcome string, score int) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.lastScore.Set(float64(score))
	}
}
