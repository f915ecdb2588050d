// Package metrics counts rows through the conversion pipeline with
// Prometheus counters kept in a private registry.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/monarch-csv/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Pipeline stages used as the stage label.
const (
	StageRead         = "read"
	StageDeduplicated = "deduplicated"
	StageExtracted    = "extracted"
	StageEmitted      = "emitted"
)

// File outcomes used as the outcome label.
const (
	OutcomeConverted = "converted"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

var stages = []string{StageRead, StageDeduplicated, StageExtracted, StageEmitted}

// Metrics holds the pipeline counters. A nil *Metrics is valid and records
// nothing, which is how metrics are disabled.
type Metrics struct {
	// Registry owns the counters below.
	Registry *prometheus.Registry

	rowsTotal       *prometheus.CounterVec
	filesTotal      *prometheus.CounterVec
	categorizedRows *prometheus.CounterVec
}

// NewMetrics creates a dedicated registry and registers the counters in it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		rowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monarch_csv_rows_total",
				Help: "Rows that reached a pipeline stage.",
			},
			[]string{"source", "stage"},
		),
		filesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monarch_csv_files_total",
				Help: "Input files processed by outcome.",
			},
			[]string{"source", "outcome"},
		),
		categorizedRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "monarch_csv_categorized_total",
				Help: "Entries by whether a category was inferred.",
			},
			[]string{"source", "result"},
		),
	}
}

// RecordStages adds the stage counts of one converted file.
func (m *Metrics) RecordStages(source models.Source, counts models.StageCounts) {
	if m == nil {
		return
	}
	src := string(source)
	m.rowsTotal.WithLabelValues(src, StageRead).Add(float64(counts.Read))
	m.rowsTotal.WithLabelValues(src, StageDeduplicated).Add(float64(counts.Deduplicated))
	m.rowsTotal.WithLabelValues(src, StageExtracted).Add(float64(counts.Extracted))
	m.rowsTotal.WithLabelValues(src, StageEmitted).Add(float64(counts.Emitted))
}

// IncrFile counts one input file with its outcome.
func (m *Metrics) IncrFile(source models.Source, outcome string) {
	if m == nil {
		return
	}
	m.filesTotal.WithLabelValues(string(source), outcome).Inc()
}

// RecordCategorized counts entries with and without an inferred category.
func (m *Metrics) RecordCategorized(source models.Source, entries []models.Entry) {
	if m == nil {
		return
	}
	for _, e := range entries {
		result := "categorized"
		if e.Category == "" {
			result = "uncategorized"
		}
		m.categorizedRows.WithLabelValues(string(source), result).Inc()
	}
}

// Rows returns the row count recorded for a source and stage.
func (m *Metrics) Rows(source models.Source, stage string) float64 {
	if m == nil {
		return 0
	}
	return getCounterValue(m.rowsTotal, string(source), stage)
}

// Files returns the file count recorded for a source and outcome.
func (m *Metrics) Files(source models.Source, outcome string) float64 {
	if m == nil {
		return 0
	}
	return getCounterValue(m.filesTotal, string(source), outcome)
}

// Summary renders one line per source with its stage totals, sources sorted
// by name.
func (m *Metrics) Summary() string {
	if m == nil {
		return ""
	}

	families, err := m.Registry.Gather()
	if err != nil {
		return ""
	}

	totals := map[string]map[string]float64{}
	for _, family := range families {
		if family.GetName() != "monarch_csv_rows_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			var source, stage string
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "source":
					source = label.GetValue()
				case "stage":
					stage = label.GetValue()
				}
			}
			if totals[source] == nil {
				totals[source] = map[string]float64{}
			}
			totals[source][stage] += metric.GetCounter().GetValue()
		}
	}

	sources := make([]string, 0, len(totals))
	for source := range totals {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	var b strings.Builder
	for _, source := range sources {
		parts := make([]string, 0, len(stages))
		for _, stage := range stages {
			parts = append(parts, fmt.Sprintf("%s=%.0f", stage, totals[source][stage]))
		}
		fmt.Fprintf(&b, "%s: %s\n", source, strings.Join(parts, " "))
	}
	return b.String()
}

// getCounterValue extracts the current value of a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
