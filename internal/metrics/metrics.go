// Package metrics exposes Prometheus collectors for extraction runs.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors for extractions.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec
	MatchesTotal       *prometheus.CounterVec
	DocumentsTotal     *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	PatternCacheSize   prometheus.Gauge
}

// NewMetrics registers the collectors with the default registry on first
// call and returns the same instance afterwards.
//
// Metrics:
//   - entitystats_extractions_total{entity,status}
//   - entitystats_matches_total{entity}
//   - entitystats_documents_total{entity}
//   - entitystats_extraction_duration_seconds{entity}
//   - entitystats_pattern_cache_entries
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = newMetrics(promauto.With(prometheus.DefaultRegisterer))
	})
	return globalMetrics
}

// NewMetricsWith registers a fresh set of collectors with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	return newMetrics(promauto.With(reg))
}

func newMetrics(f promauto.Factory) *Metrics {
	return &Metrics{
		ExtractionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entitystats_extractions_total",
				Help: "Total number of extractions run",
			},
			[]string{"entity", "status"},
		),
		MatchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entitystats_matches_total",
				Help: "Total number of entity occurrences found",
			},
			[]string{"entity"},
		),
		DocumentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "entitystats_documents_total",
				Help: "Total number of documents scanned",
			},
			[]string{"entity"},
		),
		ExtractionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "entitystats_extraction_duration_seconds",
				Help:    "Duration of extractions in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
			},
			[]string{"entity"},
		),
		PatternCacheSize: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "entitystats_pattern_cache_entries",
				Help: "Number of compiled expressions held in the pattern cache",
			},
		),
	}
}

// RecordExtraction records a successful extraction.
func (m *Metrics) RecordExtraction(entity string, documents, matches int, seconds float64) {
	m.ExtractionsTotal.WithLabelValues(entity, StatusOK).Inc()
	m.DocumentsTotal.WithLabelValues(entity).Add(float64(documents))
	m.MatchesTotal.WithLabelValues(entity).Add(float64(matches))
	m.ExtractionDuration.WithLabelValues(entity).Observe(seconds)
}

// RecordFailure records a failed extraction.
func (m *Metrics) RecordFailure(entity string, seconds float64) {
	m.ExtractionsTotal.WithLabelValues(entity, StatusError).Inc()
	m.ExtractionDuration.WithLabelValues(entity).Observe(seconds)
}

// SetPatternCacheSize updates the pattern cache gauge.
func (m *Metrics) SetPatternCacheSize(n int) {
	m.PatternCacheSize.Set(float64(n))
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
