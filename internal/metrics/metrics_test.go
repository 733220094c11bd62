// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/report-engine/internal/extract"
	"github.com/pdiddy/report-engine/pkg/types"
)

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
	next:
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestRecordDocument(t *testing.T) {
	m := New()
	doc := types.Document{
		Issues: []types.Issue{
			{RiskLevel: types.RiskHigh},
			{RiskLevel: types.RiskHigh},
			{RiskLevel: types.RiskOther},
		},
		ConversionMessages: []string{"[WARNING] x"},
	}
	m.RecordDocument(doc, extract.Stats{SkippedTables: 2, DroppedRows: 3}, 150*time.Millisecond)
	m.RecordMissing()

	assert.Equal(t, 1.0, counterValue(t, m, "report_engine_documents_total", map[string]string{"status": StatusConverted}))
	assert.Equal(t, 1.0, counterValue(t, m, "report_engine_documents_total", map[string]string{"status": StatusMissing}))
	assert.Equal(t, 2.0, counterValue(t, m, "report_engine_issues_total", map[string]string{"risk_level": "high"}))
	assert.Equal(t, 1.0, counterValue(t, m, "report_engine_issues_total", map[string]string{"risk_level": "other"}))
	assert.Equal(t, 0.0, counterValue(t, m, "report_engine_issues_total", map[string]string{"risk_level": "low"}))
	assert.Equal(t, 2.0, counterValue(t, m, "report_engine_tables_skipped_total", nil))
	assert.Equal(t, 3.0, counterValue(t, m, "report_engine_rows_dropped_total", nil))
	assert.Equal(t, 1.0, counterValue(t, m, "report_engine_conversion_messages_total", nil))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordMissing()
	m.Finish(time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "report_engine.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `report_engine_documents_total{status="missing"} 1`)
	assert.Contains(t, text, `report_engine_documents_total{status="converted"} 0`)
	assert.Contains(t, text, "report_engine_last_build_timestamp_seconds 1.7e+09")
}

func TestWriteTextfile_BadDir(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing metrics")
}
