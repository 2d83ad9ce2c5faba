// Package metrics defines the Prometheus collectors for frecency recording,
// snapshot persistence and ranking. A nil *Metrics is a valid no-op.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Load results reported by ObserveLoad.
const (
	LoadStored  = "stored"
	LoadEmpty   = "empty"
	LoadCorrupt = "corrupt"
	LoadError   = "error"
)

// Metrics holds all Prometheus collectors for the frecency ranker.
type Metrics struct {
	SelectionsRecorded prometheus.Counter
	SelectionsIgnored  prometheus.Counter
	Evictions          prometheus.Counter
	SnapshotLoads      *prometheus.CounterVec
	SnapshotPersists   *prometheus.CounterVec
	SnapshotBytes      prometheus.Histogram
	RankLatency        prometheus.Histogram
	RankedResults      *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		SelectionsRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "frecency_selections_recorded_total",
				Help: "Total selections recorded into frecency history.",
			},
		),
		SelectionsIgnored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "frecency_selections_ignored_total",
				Help: "Selections skipped because the query or id was empty.",
			},
		),
		Evictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "frecency_evictions_total",
				Help: "Result ids evicted after the recent-selection bound was exceeded.",
			},
		),
		SnapshotLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frecency_snapshot_loads_total",
				Help: "Snapshot loads by result (stored, empty, corrupt, error).",
			},
			[]string{"result"},
		),
		SnapshotPersists: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frecency_snapshot_persists_total",
				Help: "Snapshot writes by status.",
			},
			[]string{"status"},
		),
		SnapshotBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "frecency_snapshot_bytes",
				Help:    "Serialized snapshot size in bytes.",
				Buckets: prometheus.ExponentialBuckets(256, 4, 8),
			},
		),
		RankLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "frecency_rank_latency_seconds",
				Help:    "Time spent scoring and reordering one result list.",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
		RankedResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frecency_ranked_results_total",
				Help: "Results passed through the ranker by group (scored, unscored).",
			},
			[]string{"group"},
		),
	}

	reg.MustRegister(
		m.SelectionsRecorded,
		m.SelectionsIgnored,
		m.Evictions,
		m.SnapshotLoads,
		m.SnapshotPersists,
		m.SnapshotBytes,
		m.RankLatency,
		m.RankedResults,
	)

	return m
}

func (m *Metrics) ObserveSelection(evicted bool) {
	if m == nil {
		return
	}
	m.SelectionsRecorded.Inc()
	if evicted {
		m.Evictions.Inc()
	}
}

func (m *Metrics) ObserveIgnored() {
	if m == nil {
		return
	}
	m.SelectionsIgnored.Inc()
}

func (m *Metrics) ObserveLoad(result string) {
	if m == nil {
		return
	}
	m.SnapshotLoads.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePersist(size int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.SnapshotPersists.WithLabelValues("error").Inc()
		return
	}
	m.SnapshotPersists.WithLabelValues("ok").Inc()
	m.SnapshotBytes.Observe(float64(size))
}

func (m *Metrics) ObserveRank(start time.Time, scored, unscored int) {
	if m == nil {
		return
	}
	m.RankLatency.Observe(time.Since(start).Seconds())
	m.RankedResults.WithLabelValues("scored").Add(float64(scored))
	m.RankedResults.WithLabelValues("unscored").Add(float64(unscored))
}
