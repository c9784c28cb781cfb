package xmeans

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector observes refinement. Implementations are called
// synchronously from the refinement loop.
type MetricsCollector interface {
	// RecordRound is called after each splitting round with the cluster
	// count going in and the candidate count coming out.
	RecordRound(k, candidates int)

	// RecordSplit is called after every attempted split.
	RecordSplit(accepted bool)

	// RecordResult is called once when refinement stops.
	RecordResult(k, rounds int, converged bool)
}

// NoopMetrics discards all observations.
type NoopMetrics struct{}

func (NoopMetrics) RecordRound(int, int)        {}
func (NoopMetrics) RecordSplit(bool)            {}
func (NoopMetrics) RecordResult(int, int, bool) {}

// PrometheusMetrics exports refinement progress as Prometheus metrics.
type PrometheusMetrics struct {
	rounds      prometheus.Counter
	grown       prometheus.Counter
	splits      *prometheus.CounterVec
	clusters    prometheus.Gauge
	converged   prometheus.Gauge
	finalRounds prometheus.Histogram
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
// A nil reg creates unregistered collectors.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	f := promauto.With(reg)
	return &PrometheusMetrics{
		rounds: f.NewCounter(prometheus.CounterOpts{
			Name: "xmeans_rounds_total",
			Help: "Total number of splitting rounds",
		}),
		grown: f.NewCounter(prometheus.CounterOpts{
			Name: "xmeans_clusters_added_total",
			Help: "Total number of clusters added by accepted splits",
		}),
		splits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "xmeans_split_attempts_total",
			Help: "Total number of split attempts by outcome",
		}, []string{"outcome"}),
		clusters: f.NewGauge(prometheus.GaugeOpts{
			Name: "xmeans_clusters",
			Help: "Cluster count of the most recent result",
		}),
		converged: f.NewGauge(prometheus.GaugeOpts{
			Name: "xmeans_converged",
			Help: "Whether the most recent result converged (1) or hit the round limit (0)",
		}),
		finalRounds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "xmeans_result_rounds",
			Help:    "Rounds needed per refinement",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		}),
	}
}

func (m *PrometheusMetrics) RecordRound(k, candidates int) {
	m.rounds.Inc()
	if candidates > k {
		m.grown.Add(float64(candidates - k))
	}
}

func (m *PrometheusMetrics) RecordSplit(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.splits.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordResult(k, rounds int, converged bool) {
	m.clusters.Set(float64(k))
	if converged {
		m.converged.Set(1)
	} else {
		m.converged.Set(0)
	}
	m.finalRounds.Observe(float64(rounds))
}
