// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics provides Prometheus metrics for report builds. A build
// is a batch job, so metrics are written once to a node-exporter textfile
// rather than served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/report-engine/internal/extract"
	"github.com/pdiddy/report-engine/pkg/types"
)

// Document statuses used as the status label.
const (
	StatusConverted = "converted"
	StatusMissing   = "missing"
)

// Metrics holds the build metrics and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsTotal     *prometheus.CounterVec
	IssuesTotal        *prometheus.CounterVec
	TablesSkipped      prometheus.Counter
	RowsDropped        prometheus.Counter
	ConversionMessages prometheus.Counter
	ConversionDuration prometheus.Histogram
	LastBuild          prometheus.Gauge
}

// New creates the metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.DocumentsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_engine_documents_total",
			Help: "Report documents processed, by status",
		},
		[]string{"status"},
	)

	m.IssuesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_engine_issues_total",
			Help: "Issues extracted, by risk level",
		},
		[]string{"risk_level"},
	)

	m.TablesSkipped = f.NewCounter(prometheus.CounterOpts{
		Name: "report_engine_tables_skipped_total",
		Help: "Tables skipped for having fewer than two rows",
	})

	m.RowsDropped = f.NewCounter(prometheus.CounterOpts{
		Name: "report_engine_rows_dropped_total",
		Help: "Table rows dropped for having neither finding nor recommendation",
	})

	m.ConversionMessages = f.NewCounter(prometheus.CounterOpts{
		Name: "report_engine_conversion_messages_total",
		Help: "Diagnostic messages emitted by the converter",
	})

	m.ConversionDuration = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "report_engine_conversion_duration_seconds",
		Help:    "Duration of document conversions in seconds",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	})

	m.LastBuild = f.NewGauge(prometheus.GaugeOpts{
		Name: "report_engine_last_build_timestamp_seconds",
		Help: "Unix time of the last completed build",
	})

	// Pre-create every label value so zero counts are exported.
	m.DocumentsTotal.WithLabelValues(StatusConverted)
	m.DocumentsTotal.WithLabelValues(StatusMissing)
	for _, l := range []types.RiskLevel{types.RiskHigh, types.RiskMedium, types.RiskLow, types.RiskTriggered, types.RiskOther} {
		m.IssuesTotal.WithLabelValues(string(l))
	}

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordDocument records one converted document.
func (m *Metrics) RecordDocument(doc types.Document, stats extract.Stats, conversion time.Duration) {
	m.DocumentsTotal.WithLabelValues(StatusConverted).Inc()
	for _, is := range doc.Issues {
		m.IssuesTotal.WithLabelValues(string(is.RiskLevel)).Inc()
	}
	m.TablesSkipped.Add(float64(stats.SkippedTables))
	m.RowsDropped.Add(float64(stats.DroppedRows))
	m.ConversionMessages.Add(float64(len(doc.ConversionMessages)))
	m.ConversionDuration.Observe(conversion.Seconds())
}

// RecordMissing records a descriptor whose source document was absent.
func (m *Metrics) RecordMissing() {
	m.DocumentsTotal.WithLabelValues(StatusMissing).Inc()
}

// Finish stamps the build completion time.
func (m *Metrics) Finish(at time.Time) {
	m.LastBuild.Set(float64(at.Unix()))
}

// WriteTextfile writes all metrics in the Prometheus text format to path,
// replacing the file atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
