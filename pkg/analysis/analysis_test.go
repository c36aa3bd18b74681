package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"synthoct/internal/models"
	"synthoct/pkg/octimage"
	"synthoct/pkg/octmap"
	"synthoct/pkg/similarity"
)

func TestPairIndicesIntra(t *testing.T) {
	tests := []struct {
		name string
		i    int
		want []int
	}{
		{"first index gets full forward band", 0, []int{1, 2, 3, 4, 5}},
		{"interior index gets full forward band", 3, []int{4, 5, 6, 7, 8}},
		{"band clips at the end", 8, []int{9}},
		{"last index has no partners", 9, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PairIndices(models.Intra, tt.i, 10, 10, 5)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPairIndicesInter(t *testing.T) {
	tests := []struct {
		name string
		i    int
		lenB int
		want []int
	}{
		{"symmetric band excludes equal index", 5, 10, []int{2, 3, 4, 6, 7, 8}},
		{"band clips at the start", 0, 10, []int{1, 2, 3}},
		{"band clips at the other sequence length", 9, 10, []int{6, 7, 8}},
		{"shorter other sequence", 5, 4, []int{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PairIndices(models.Inter, tt.i, 10, tt.lenB, 3)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestPairIndicesNoSelfPairs verifies that no policy ever pairs an image
// with itself, for any index.
func TestPairIndicesNoSelfPairs(t *testing.T) {
	for _, tagType := range []models.ComparisonType{models.Intra, models.Inter, models.Cross} {
		for i := 0; i < 12; i++ {
			for _, j := range PairIndices(tagType, i, 12, 12, 4) {
				assert.NotEqualf(t, i, j, "type %s index %d", tagType, i)
			}
		}
	}
}

func statsFromRange(min, max, std float64) Stats {
	return Stats{
		N: 10, Std: std,
		Min: min, Max: max,
		IntervalLow: min, IntervalHigh: max,
	}
}

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		name      string
		baseline  Stats
		candidate Stats
		want      models.Verdict
	}{
		{
			name:      "overlapping intervals",
			baseline:  statsFromRange(0.0, 1.0, 0.1),
			candidate: statsFromRange(0.5, 1.5, 0.1),
			want:      models.VerdictNone,
		},
		{
			name:      "touching intervals still overlap",
			baseline:  statsFromRange(0.0, 1.0, 0.1),
			candidate: statsFromRange(1.0, 2.0, 0.1),
			want:      models.VerdictNone,
		},
		{
			name:     "disjoint intervals but overlapping ranges",
			baseline: Stats{N: 10, Min: 0.0, Max: 1.2, IntervalLow: 0.0, IntervalHigh: 1.0, Std: 0.1},
			candidate: Stats{
				N: 10, Min: 1.1, Max: 2.0, IntervalLow: 1.3, IntervalHigh: 2.0, Std: 0.1,
			},
			want: models.VerdictSignificant,
		},
		{
			name:      "disjoint ranges with small gap",
			baseline:  statsFromRange(0.0, 1.0, 0.3),
			candidate: statsFromRange(1.4, 2.0, 0.3),
			want:      models.VerdictHighlySignificant,
		},
		{
			name:      "gap wider than both deviations",
			baseline:  statsFromRange(0.0, 1.0, 0.1),
			candidate: statsFromRange(2.0, 3.0, 0.1),
			want:      models.VerdictRobustlySeparated,
		},
		{
			name:      "candidate below the baseline",
			baseline:  statsFromRange(2.0, 3.0, 0.1),
			candidate: statsFromRange(0.0, 1.0, 0.1),
			want:      models.VerdictRobustlySeparated,
		},
		{
			name:      "empty baseline",
			baseline:  Stats{},
			candidate: statsFromRange(0.0, 1.0, 0.1),
			want:      models.VerdictNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.baseline, tt.candidate))
		})
	}
}

func TestSummarize(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s, err := Summarize(values, 2.5, 97.5)
	require.NoError(t, err)

	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(2.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.LessOrEqual(t, s.IntervalLow, s.IntervalHigh)
	assert.GreaterOrEqual(t, s.IntervalLow, s.Min)
	assert.LessOrEqual(t, s.IntervalHigh, s.Max)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil, 2.5, 97.5)
	assert.Error(t, err)
}

// writeScanSet writes count copies of the same random scan into a folder,
// so every pairwise comparison inside it scores as identical.
func writeScanSet(t *testing.T, dir string, count int, seed int64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))

	rng := rand.New(rand.NewSource(seed))
	img := models.NewImage(32, 32)
	for i := range img.Data {
		img.Data[i] = rng.Float64()
	}
	for k := 0; k < count; k++ {
		path := filepath.Join(dir, fmt.Sprintf("scan_%03d.png", k))
		require.NoError(t, octimage.SaveGray(img, path))
	}
}

// TestAnalyzerEndToEnd runs the full pipeline on two folders holding
// identical scans. Every distribution is degenerate at the identity score,
// so all verdicts must stay None and SSIM must sit at 1.
func TestAnalyzerEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir, err := os.MkdirTemp("", "analysis-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	writeScanSet(t, filepath.Join(tmpDir, "Ref"), 20, 42)
	writeScanSet(t, filepath.Join(tmpDir, "SetB"), 20, 42)

	params := &Params{
		InputDir:       tmpDir,
		ReferenceSet:   "Ref",
		NeighborDepth:  3,
		PercentileLow:  2.5,
		PercentileHigh: 97.5,
		NumWorkers:     2,
		DeriveMaps:     true,
	}
	analyzer := NewAnalyzer(params, similarity.NewEvaluator(similarity.Capabilities{}), octmap.NewGenerator(6.0, 4))

	results, err := analyzer.Run()
	require.NoError(t, err)

	// reference set first, then 4 map kinds times 3 folder pairs
	assert.Equal(t, []string{"Ref", "SetB"}, results.Folders)
	assert.Len(t, results.Comparisons, 12)

	for _, comp := range results.Comparisons {
		if comp.Tag.Type == models.Intra {
			// forward bands of depth 3 over 20 scans
			assert.Lenf(t, comp.Rows, 54, "comparison %s %s", comp.Map, comp.Tag.Label)
		}
		for _, v := range comp.Distributions["SSIM"] {
			assert.InDeltaf(t, 1.0, v, 1e-9, "comparison %s %s", comp.Map, comp.Tag.Label)
		}
	}

	require.NotEmpty(t, results.Summary)
	for _, row := range results.Summary {
		assert.Equalf(t, models.VerdictNone, row.Verdict, "row %s %s %s", row.Map, row.Comparison, row.Metric)
		assert.False(t, row.DiagnosticPower)
		if row.Metric == "SSIM" {
			assert.InDelta(t, 1.0, row.Stats.Mean, 1e-9)
		}
	}
}
