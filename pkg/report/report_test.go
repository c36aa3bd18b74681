package report

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthoct/internal/models"
	"synthoct/pkg/analysis"
	"synthoct/pkg/similarity"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteRawTables(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "report-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	comparisons := []*analysis.Comparison{
		{
			Map: models.OAC,
			Tag: models.ComparisonTag{Type: models.Intra, Label: "Intra_Ref"},
			Rows: []analysis.RawRow{
				{
					File1: "scan_000_OAC.png",
					File2: "scan_001_OAC.png",
					Scores: similarity.PairScores{
						"MSE":  0.01,
						"PSNR": math.Inf(1),
						"SSIM": 0.95,
					},
				},
			},
		},
		// an empty comparison must not produce a file
		{
			Map: models.SC,
			Tag: models.ComparisonTag{Type: models.Cross, Label: "Cross_A_vs_B"},
		},
	}

	require.NoError(t, WriteRawTables(tmpDir, comparisons))

	records := readCSV(t, filepath.Join(tmpDir, "Raw_CSVs", "OAC_Intra_Ref.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"File1", "File2", "MSE", "PSNR", "SSIM", "MS-SSIM", "VIF", "LPIPS"}, records[0])

	row := records[1]
	assert.Equal(t, "scan_000_OAC.png", row[0])
	assert.Equal(t, "scan_001_OAC.png", row[1])
	assert.Equal(t, "0.01", row[2])
	assert.Empty(t, row[3], "infinite PSNR becomes an empty cell")
	assert.Equal(t, "0.95", row[4])
	assert.Empty(t, row[5], "unavailable MS-SSIM becomes an empty cell")

	_, err = os.Stat(filepath.Join(tmpDir, "Raw_CSVs", "SC_Cross_A_vs_B.csv"))
	assert.True(t, os.IsNotExist(err), "empty comparisons get no file")
}

func TestWriteSummary(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "report-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	summary := []analysis.SummaryRow{
		{
			Map:        models.RSC,
			Comparison: "Inter_Dens_500",
			Type:       models.Inter,
			Metric:     "SSIM",
			Stats: analysis.Stats{
				N: 36, Mean: 0.42,
				IntervalLow: 0.40, IntervalHigh: 0.44,
			},
			DiagnosticPower: true,
			Verdict:         models.VerdictRobustlySeparated,
		},
	}

	require.NoError(t, WriteSummary(tmpDir, summary))

	records := readCSV(t, filepath.Join(tmpDir, "Summary_Stats.csv"))
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Map", "Comparison", "Type", "Metric", "Mean", "P_2_5", "P_97_5", "Diagnostic_Power", "Verdict"}, records[0])
	assert.Equal(t, []string{"RSC", "Inter_Dens_500", "Inter", "SSIM", "0.42", "0.4", "0.44", "true", "RobustlySeparated"}, records[1])
}

// TestWritePlots renders one interval plot per metric and map kind
// represented in the summary.
func TestWritePlots(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping plot rendering in short mode")
	}

	tmpDir, err := os.MkdirTemp("", "report-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	summary := []analysis.SummaryRow{
		{
			Map: models.Struct, Comparison: "Intra_Ref", Type: models.Intra, Metric: "SSIM",
			Stats: analysis.Stats{N: 10, Mean: 0.9, IntervalLow: 0.88, IntervalHigh: 0.92},
		},
		{
			Map: models.Struct, Comparison: "Inter_SetB", Type: models.Inter, Metric: "SSIM",
			Stats:   analysis.Stats{N: 10, Mean: 0.5, IntervalLow: 0.45, IntervalHigh: 0.55},
			Verdict: models.VerdictSignificant, DiagnosticPower: true,
		},
	}

	require.NoError(t, WritePlots(tmpDir, summary))

	_, err = os.Stat(filepath.Join(tmpDir, "Plots", "Plot_SSIM_Struct.png"))
	assert.NoError(t, err)
}

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0.5", formatScore(0.5, true))
	assert.Empty(t, formatScore(0.5, false))
	assert.Empty(t, formatScore(math.Inf(1), true))
	assert.Empty(t, formatScore(math.NaN(), true))
}
