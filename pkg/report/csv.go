// Package report persists analysis results: raw per-comparison score
// tables, the summary statistics table and per-metric interval plots.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"synthoct/pkg/analysis"
	"synthoct/pkg/similarity"
)

// Subdirectories created under the output root
const (
	rawCSVDir = "Raw_CSVs"
	plotsDir  = "Plots"

	summaryFile = "Summary_Stats.csv"
)

// WriteRawTables writes one CSV file per non-empty comparison into
// <outputDir>/Raw_CSVs. Each row is one scored pair; metrics that were
// unavailable for a pair are written as empty cells.
func WriteRawTables(outputDir string, comparisons []*analysis.Comparison) error {
	dir := filepath.Join(outputDir, rawCSVDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create raw CSV directory: %w", err)
	}

	for _, comp := range comparisons {
		if len(comp.Rows) == 0 {
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", comp.Map, comp.Tag.Label))
		if err := writeRawTable(path, comp); err != nil {
			return err
		}
	}
	return nil
}

func writeRawTable(path string, comp *analysis.Comparison) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := append([]string{"File1", "File2"}, similarity.MetricNames...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range comp.Rows {
		record := []string{row.File1, row.File2}
		for _, metric := range similarity.MetricNames {
			v, ok := row.Scores[metric]
			record = append(record, formatScore(v, ok))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteSummary writes the summary statistics table to
// <outputDir>/Summary_Stats.csv
func WriteSummary(outputDir string, summary []analysis.SummaryRow) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outputDir, summaryFile)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"Map", "Comparison", "Type", "Metric", "Mean", "P_2_5", "P_97_5", "Diagnostic_Power", "Verdict"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range summary {
		record := []string{
			row.Map.String(),
			row.Comparison,
			row.Type.String(),
			row.Metric,
			formatStat(row.Stats.Mean),
			formatStat(row.Stats.IntervalLow),
			formatStat(row.Stats.IntervalHigh),
			strconv.FormatBool(row.DiagnosticPower),
			row.Verdict.String(),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// formatScore renders a raw metric cell. Unavailable metrics and
// non-finite scores (PSNR of identical images) become empty cells so the
// table stays uniformly parseable.
func formatScore(v float64, ok bool) string {
	if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatStat renders a summary statistic, keeping infinities explicit
func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
