// Package metrics exposes Prometheus instruments for pipeline runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docketwatch"

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFetch   = "fetch_error"
	OutcomeExtract = "extract_error"
	OutcomeParse   = "parse_error"
	OutcomeStore   = "store_error"
)

// Metrics groups the pipeline instruments on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	entriesParsed *prometheus.CounterVec
	entriesNew    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	seenKeys      *prometheus.GaugeVec
}

// New registers every instrument on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		// Labels: category, outcome
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by category and outcome",
		}, []string{"category", "outcome"}),
		entriesParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_parsed_total",
			Help:      "Entries segmented from fetched releases",
		}, []string{"category"}),
		// Labels: category, sub_kind
		entriesNew: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_new_total",
			Help:      "Entries not seen in any earlier run",
		}, []string{"category", "sub_kind"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent retrieving a release",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
		seenKeys: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "seen_keys",
			Help:      "Keys in the seen set after the last successful run",
		}, []string{"category"}),
	}
}

// Registry returns the registry backing the instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveRun(category, outcome string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(category, outcome).Inc()
}

func (m *Metrics) ObserveFetch(category string, d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(category).Observe(d.Seconds())
}

func (m *Metrics) AddParsed(category string, n int) {
	if m == nil {
		return
	}
	m.entriesParsed.WithLabelValues(category).Add(float64(n))
}

func (m *Metrics) AddNew(category, subKind string) {
	if m == nil {
		return
	}
	m.entriesNew.WithLabelValues(category, subKind).Inc()
}

func (m *Metrics) SetSeen(category string, n int) {
	if m == nil {
		return
	}
	m.seenKeys.WithLabelValues(category).Set(float64(n))
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
