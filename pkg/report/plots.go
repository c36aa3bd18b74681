package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"synthoct/internal/models"
	"synthoct/pkg/analysis"
	"synthoct/pkg/similarity"
)

// Comparison type colors matching the reference palette: green for Intra,
// red for Inter, blue for Cross.
var typeColors = map[models.ComparisonType]color.Color{
	models.Intra: color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	models.Inter: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	models.Cross: color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
}

// WritePlots renders one interval bar chart per (metric, map kind) into
// <outputDir>/Plots. Each bar is a comparison's mean score with the
// empirical percentile interval as error bars; separated comparisons are
// annotated with the verdict's star label. Buckets whose statistics are
// not finite (e.g. PSNR of identical images) are left out.
func WritePlots(outputDir string, summary []analysis.SummaryRow) error {
	dir := filepath.Join(outputDir, plotsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plots directory: %w", err)
	}

	for _, metric := range similarity.MetricNames {
		for _, mt := range models.AllMapKinds {
			rows := selectRows(summary, metric, mt)
			if len(rows) == 0 {
				continue
			}

			path := filepath.Join(dir, fmt.Sprintf("Plot_%s_%s.png", metric, mt))
			if err := plotIntervals(path, metric, mt, rows); err != nil {
				return err
			}
		}
	}
	return nil
}

// selectRows picks the finite rows of one (metric, map) bucket, ordered
// Intra, Inter, Cross and alphabetically within each group
func selectRows(summary []analysis.SummaryRow, metric string, mt models.MapKind) []analysis.SummaryRow {
	var rows []analysis.SummaryRow
	for _, row := range summary {
		if row.Metric != metric || row.Map != mt {
			continue
		}
		if !finite(row.Stats.Mean) || !finite(row.Stats.IntervalLow) || !finite(row.Stats.IntervalHigh) {
			continue
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Type != rows[j].Type {
			return rows[i].Type < rows[j].Type
		}
		return rows[i].Comparison < rows[j].Comparison
	})
	return rows
}

func plotIntervals(path, metric string, mt models.MapKind, rows []analysis.SummaryRow) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Diagnostic Sensitivity: %s on %s", metric, mt)
	p.Y.Label.Text = metric

	// one bar chart per comparison type so each keeps its color; bars of
	// other types stay at zero height in each chart
	for _, ct := range []models.ComparisonType{models.Intra, models.Inter, models.Cross} {
		values := make(plotter.Values, len(rows))
		present := false
		for i, row := range rows {
			if row.Type == ct {
				values[i] = row.Stats.Mean
				present = true
			}
		}
		if !present {
			continue
		}

		bars, err := plotter.NewBarChart(values, vg.Points(18))
		if err != nil {
			return fmt.Errorf("failed to build bar chart: %w", err)
		}
		bars.Color = typeColors[ct]
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(ct.String(), bars)
	}

	errs, err := plotter.NewYErrorBars(intervalPoints(rows))
	if err != nil {
		return fmt.Errorf("failed to build error bars: %w", err)
	}
	p.Add(errs)

	labels := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Comparison
		if stars := row.Verdict.Stars(); stars != "" {
			labels[i] += " " + stars
		}
	}
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = -0.9
	p.X.Tick.Label.YAlign = -0.4
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", path, err)
	}
	return nil
}

// intervalPoints exposes the percentile intervals as asymmetric Y error
// bars around each bar's mean
type intervalPoints []analysis.SummaryRow

func (ip intervalPoints) Len() int { return len(ip) }

func (ip intervalPoints) XY(i int) (float64, float64) {
	return float64(i), ip[i].Stats.Mean
}

func (ip intervalPoints) YError(i int) (float64, float64) {
	s := ip[i].Stats
	return s.Mean - s.IntervalLow, s.IntervalHigh - s.Mean
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
