package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_Singleton(t *testing.T) {
	assert.Same(t, NewMetrics(), NewMetrics())
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	m.RecordExtraction("hashtag", 3, 5, 0.01)
	m.RecordExtraction("hashtag", 2, 1, 0.02)
	m.RecordFailure("url", 0.001)
	m.SetPatternCacheSize(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("hashtag", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("url", StatusError)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("hashtag")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.MatchesTotal.WithLabelValues("hashtag")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.PatternCacheSize))
	assert.Equal(t, 2, testutil.CollectAndCount(m.ExtractionDuration))
}

func TestNewMetricsWith_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetricsWith(reg)
	assert.Panics(t, func() { NewMetricsWith(reg) })
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	m.RecordExtraction("mention", 1, 2, 0.5)

	path := filepath.Join(t.TempDir(), "entitystats.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `entitystats_matches_total{entity="mention"} 2`)

	err = WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), reg)
	assert.Error(t, err)
}
