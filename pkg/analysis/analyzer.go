package analysis

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"synthoct/internal/models"
	"synthoct/pkg/octimage"
	"synthoct/pkg/octmap"
	"synthoct/pkg/similarity"
)

// Params configures a dataset analysis run
type Params struct {
	// InputDir is the dataset root containing one folder per image set
	InputDir string

	// ReferenceSet is the folder whose intra-class distribution serves as
	// the significance baseline
	ReferenceSet string

	// NeighborDepth bounds how many neighboring indices each image is
	// paired with
	NeighborDepth int

	// PercentileLow and PercentileHigh bound the empirical interval used
	// by the significance tiers (2.5 and 97.5 in the reference design)
	PercentileLow  float64
	PercentileHigh float64

	// NumWorkers is the number of concurrent scoring workers; zero or
	// negative means one per CPU
	NumWorkers int

	// DeriveMaps generates missing OAC/SC/RSC maps before analysis
	DeriveMaps bool
}

// Analyzer runs the full evaluation over a dataset root: discover folders,
// pair images under the neighbor-depth policy, score pairs, aggregate
// distributions and classify them against the baseline.
type Analyzer struct {
	params *Params
	eval   *similarity.Evaluator
	gen    *octmap.Generator
}

// RawRow is one scored pair in a raw score table
type RawRow struct {
	File1  string
	File2  string
	Scores similarity.PairScores
}

// Comparison holds everything aggregated for one (map kind, folder pair)
type Comparison struct {
	// Map is the derived-map kind the scores were computed on
	Map models.MapKind

	// Tag classifies the folder pair
	Tag models.ComparisonTag

	// Rows lists the successfully scored pairs in pairing order
	Rows []RawRow

	// Distributions collects scores per metric name. Append-only during
	// aggregation, never mutated afterwards.
	Distributions map[string][]float64
}

// SummaryRow is one line of the summary statistics table
type SummaryRow struct {
	Map             models.MapKind
	Comparison      string
	Type            models.ComparisonType
	Metric          string
	Stats           Stats
	DiagnosticPower bool
	Verdict         models.Verdict
}

// Results is the complete output of an analysis run
type Results struct {
	// Folders lists the discovered image sets, reference set first
	Folders []string

	// Comparisons holds raw rows and distributions per (map, folder pair)
	Comparisons []*Comparison

	// Summary holds statistics and verdicts for every non-empty
	// (map, comparison, metric) bucket
	Summary []SummaryRow
}

// NewAnalyzer creates an analyzer. The map generator may be nil when
// DeriveMaps is disabled.
func NewAnalyzer(params *Params, eval *similarity.Evaluator, gen *octmap.Generator) *Analyzer {
	return &Analyzer{params: params, eval: eval, gen: gen}
}

// Run executes the analysis. The only fatal condition is an unreadable
// dataset root; every per-pair or per-metric failure is local and results
// in a dropped pair or an unavailable metric.
func (a *Analyzer) Run() (*Results, error) {
	folders, hasBaseline, err := a.discoverFolders()
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, fmt.Errorf("no image-set folders found in %s", a.params.InputDir)
	}
	if !hasBaseline {
		log.Printf("Warning: reference set %q not found; verdicts default to None", a.params.ReferenceSet)
	}

	log.Printf("Analyzing sets: %v", folders)

	if a.params.DeriveMaps && a.gen != nil {
		a.deriveMissingMaps(folders)
	}

	results := &Results{Folders: folders}

	for _, mt := range models.AllMapKinds {
		log.Printf("  > Map: %s", mt)

		for i := 0; i < len(folders); i++ {
			for j := i; j < len(folders); j++ {
				tag := models.ClassifyPair(folders[i], folders[j], a.params.ReferenceSet)
				filesA := a.mapFiles(folders[i], mt)
				filesB := filesA
				if i != j {
					filesB = a.mapFiles(folders[j], mt)
				}

				comp := a.scoreComparison(mt, tag, filesA, filesB)
				results.Comparisons = append(results.Comparisons, comp)
			}
		}
	}

	a.summarize(results, hasBaseline)
	return results, nil
}

// discoverFolders lists the image-set folders under the dataset root,
// sorted, with the reference set moved to the front when present.
func (a *Analyzer) discoverFolders() ([]string, bool, error) {
	entries, err := os.ReadDir(a.params.InputDir)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read dataset root %s: %w", a.params.InputDir, err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	sort.Strings(folders)

	hasBaseline := false
	for idx, name := range folders {
		if name == a.params.ReferenceSet {
			copy(folders[1:idx+1], folders[:idx])
			folders[0] = name
			hasBaseline = true
			break
		}
	}
	return folders, hasBaseline, nil
}

// structuralScans lists the structural scan files of a folder in sorted
// order, excluding persisted derived maps.
func (a *Analyzer) structuralScans(folder string) []string {
	entries, err := os.ReadDir(filepath.Join(a.params.InputDir, folder))
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.ToLower(filepath.Ext(name)) != ".png" {
			continue
		}
		if strings.Contains(name, "_OAC") || strings.Contains(name, "_SC") || strings.Contains(name, "_RSC") {
			continue
		}
		files = append(files, filepath.Join(a.params.InputDir, folder, name))
	}
	sort.Strings(files)
	return files
}

// mapFiles returns the per-scan file paths of one derived-map kind,
// ordered by scan index
func (a *Analyzer) mapFiles(folder string, kind models.MapKind) []string {
	scans := a.structuralScans(folder)
	if kind == models.Struct {
		return scans
	}
	files := make([]string, len(scans))
	for i, scan := range scans {
		files[i] = octmap.MapPath(scan, kind)
	}
	return files
}

// deriveMissingMaps generates OAC/SC/RSC maps for every structural scan
// that does not have them yet. Failures are logged and skipped; the
// affected pairs will simply drop out of the distributions.
func (a *Analyzer) deriveMissingMaps(folders []string) {
	for _, folder := range folders {
		for _, scan := range a.structuralScans(folder) {
			if _, err := os.Stat(octmap.MapPath(scan, models.OAC)); err == nil {
				continue
			}
			if _, err := a.gen.GenerateAll(scan); err != nil {
				log.Printf("Warning: failed to derive maps for %s: %v", scan, err)
			}
		}
	}
}

type pairJob struct {
	idx   int
	fileA string
	fileB string
}

// scoreComparison scores every pair the pairing policy yields for one
// folder pair, in parallel, and aggregates the distributions once all
// workers have finished. Pairs that fail to load or mismatch in shape are
// dropped silently; they reduce the sample size and nothing else.
func (a *Analyzer) scoreComparison(mt models.MapKind, tag models.ComparisonTag, filesA, filesB []string) *Comparison {
	var jobs []pairJob
	for i := range filesA {
		for _, j := range PairIndices(tag.Type, i, len(filesA), len(filesB), a.params.NeighborDepth) {
			jobs = append(jobs, pairJob{idx: len(jobs), fileA: filesA[i], fileB: filesB[j]})
		}
	}

	scores := make([]similarity.PairScores, len(jobs))

	workers := a.params.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobCh := make(chan pairJob)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				scores[job.idx] = a.scorePair(job.fileA, job.fileB)
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	// all workers are done; safe to assemble the distributions
	comp := &Comparison{
		Map:           mt,
		Tag:           tag,
		Distributions: make(map[string][]float64),
	}
	for k, job := range jobs {
		s := scores[k]
		if len(s) == 0 {
			continue
		}
		comp.Rows = append(comp.Rows, RawRow{
			File1:  filepath.Base(job.fileA),
			File2:  filepath.Base(job.fileB),
			Scores: s,
		})
		for metric, v := range s {
			comp.Distributions[metric] = append(comp.Distributions[metric], v)
		}
	}
	return comp
}

// scorePair loads two map files and evaluates all metrics on them. When
// shapes differ the second image is resampled to the first's shape before
// scoring.
func (a *Analyzer) scorePair(fileA, fileB string) similarity.PairScores {
	imgA, err := octimage.LoadGray(fileA)
	if err != nil {
		return nil
	}
	imgB, err := octimage.LoadGray(fileB)
	if err != nil {
		return nil
	}
	if !imgA.SameShape(imgB) {
		imgB = octimage.Resample(imgB, imgA.Width, imgA.Height)
	}
	return a.eval.Evaluate(imgA, imgB)
}

// summarize computes statistics and baseline-relative verdicts for every
// non-empty distribution. Buckets with zero samples are omitted rather
// than reported with degenerate statistics.
func (a *Analyzer) summarize(results *Results, hasBaseline bool) {
	baseLabel := "Intra_" + a.params.ReferenceSet

	// baseline statistics per (map kind, metric), computed before any
	// candidate is classified
	baseStats := make(map[models.MapKind]map[string]Stats)
	if hasBaseline {
		for _, comp := range results.Comparisons {
			if comp.Tag.Label != baseLabel {
				continue
			}
			perMetric := make(map[string]Stats)
			for _, metric := range similarity.MetricNames {
				if st, err := Summarize(comp.Distributions[metric], a.params.PercentileLow, a.params.PercentileHigh); err == nil {
					perMetric[metric] = st
				}
			}
			baseStats[comp.Map] = perMetric
		}
	}

	for _, comp := range results.Comparisons {
		for _, metric := range similarity.MetricNames {
			st, err := Summarize(comp.Distributions[metric], a.params.PercentileLow, a.params.PercentileHigh)
			if err != nil {
				continue
			}

			row := SummaryRow{
				Map:        comp.Map,
				Comparison: comp.Tag.Label,
				Type:       comp.Tag.Type,
				Metric:     metric,
				Stats:      st,
			}

			if comp.Tag.Label != baseLabel {
				if base, ok := baseStats[comp.Map][metric]; ok {
					row.Verdict = Classify(base, st)
					row.DiagnosticPower = row.Verdict != models.VerdictNone
				}
			}

			results.Summary = append(results.Summary, row)
		}
	}
}
