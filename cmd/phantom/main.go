package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"synthoct/internal/models"
	"synthoct/pkg/config"
	"synthoct/pkg/octimage"
	"synthoct/pkg/octmap"
	"synthoct/pkg/phantom"
	"synthoct/pkg/similarity"
)

// experiment describes one phantom configuration scanned twice with
// different seeds so its two realizations can be compared.
type experiment struct {
	name  string
	build func(g *phantom.Generator, seed int64) []phantom.Scatterer
}

// reportRow is one comparison scored across all metrics.
type reportRow struct {
	comparison string
	kind       models.MapKind
	scores     similarity.PairScores
}

const (
	seedA = 42
	seedB = 101
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "synthoct.yaml", "Path to YAML configuration file")
	workDir := flag.String("workdir", "phantom_runs", "Directory for scatterer files, scans and derived maps")
	scannerExe := flag.String("scanner", "", "Path to the scanner executable (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *scannerExe != "" {
		cfg.Scanner.ExePath = *scannerExe
	}

	scanner := &phantom.Scanner{ExePath: cfg.Scanner.ExePath}
	if err := scanner.Available(); err != nil {
		log.Fatalf("Scanner check failed: %v", err)
	}

	fmt.Println("================================")
	fmt.Println("PHANTOM SCAN PIPELINE")
	fmt.Println("Scatterer synthesis, scan simulation and derived-map scoring")
	fmt.Println("================================")

	geom := cfg.Scanner.Geometry
	gen := phantom.NewGenerator(geom)
	mapGen := octmap.NewGenerator(cfg.Maps.PixelSize, cfg.Maps.Window)

	caps := similarity.Capabilities{
		MSSSIM: cfg.Metrics.EnableMSSSIM,
		VIF:    cfg.Metrics.EnableVIF,
	}
	if cfg.Metrics.LPIPSEndpoint != "" {
		client := similarity.NewLPIPSClient(cfg.Metrics.LPIPSEndpoint)
		if err := client.HealthCheck(); err != nil {
			log.Printf("Warning: LPIPS service unavailable, metric disabled: %v", err)
		} else {
			caps.LPIPS = client
		}
	}
	eval := similarity.NewEvaluator(caps)

	experiments := []experiment{
		{
			name: "Exp1_Uniform",
			build: func(g *phantom.Generator, seed int64) []phantom.Scatterer {
				return g.Uniform(seed, 1.0)
			},
		},
		{
			name: "Exp2_Layers",
			build: func(g *phantom.Generator, seed int64) []phantom.Scatterer {
				return g.TwoLayers(seed, 400.0, 0.01, 2.5)
			},
		},
	}

	if err := os.MkdirAll(*workDir, 0755); err != nil {
		log.Fatalf("Failed to create work directory: %v", err)
	}

	startTime := time.Now()

	// Synthesize, scan and derive maps for both realizations of every
	// experiment.
	scanPaths := make(map[string]string)
	for _, exp := range experiments {
		for _, variant := range []struct {
			label string
			seed  int64
		}{{"A", seedA}, {"B", seedB}} {
			base := fmt.Sprintf("%s_%s", exp.name, variant.label)
			scatterPath := filepath.Join(*workDir, base+"_scatterers.txt")
			scanPath := filepath.Join(*workDir, base+".png")
			iniPath := filepath.Join(*workDir, base+".ini")

			fmt.Printf("Synthesizing %s (seed %d)...\n", base, variant.seed)
			field := exp.build(gen, variant.seed)
			if err := phantom.WriteScatterers(scatterPath, field); err != nil {
				log.Fatalf("Failed to write scatterers for %s: %v", base, err)
			}
			if err := phantom.WriteConfigINI(iniPath, geom, scanPath, scatterPath); err != nil {
				log.Fatalf("Failed to write scanner config for %s: %v", base, err)
			}

			fmt.Printf("Scanning %s...\n", base)
			if err := scanner.Scan(iniPath, scatterPath, scanPath); err != nil {
				log.Fatalf("Scan failed for %s: %v", base, err)
			}

			if _, err := mapGen.GenerateAll(scanPath); err != nil {
				log.Fatalf("Map generation failed for %s: %v", base, err)
			}
			scanPaths[base] = scanPath
		}
	}

	// Score each experiment's A realization against its B realization,
	// then Exp1 against Exp2 to show the separation between phantoms.
	var rows []reportRow
	for _, exp := range experiments {
		rows = append(rows, scoreMaps(eval, exp.name+"_A_vs_B",
			scanPaths[exp.name+"_A"], scanPaths[exp.name+"_B"])...)
	}
	rows = append(rows, scoreMaps(eval, "Exp1_vs_Exp2",
		scanPaths["Exp1_Uniform_A"], scanPaths["Exp2_Layers_A"])...)

	reportPath := filepath.Join(*workDir, "Final_Metrics_Report.csv")
	if err := writeReport(reportPath, rows); err != nil {
		log.Fatalf("Failed to write metrics report: %v", err)
	}

	fmt.Printf("\nPipeline completed in %.2f seconds\n", time.Since(startTime).Seconds())
	fmt.Printf("Metrics report written to: %s\n\n", reportPath)

	for _, row := range rows {
		fmt.Printf("%-16s %-6s", row.comparison, row.kind)
		for _, name := range similarity.MetricNames {
			if v, ok := row.scores[name]; ok {
				fmt.Printf("  %s=%.4f", name, v)
			}
		}
		fmt.Println()
	}
}

// scoreMaps evaluates the structural scan and every derived map of two
// realizations against each other.
func scoreMaps(eval *similarity.Evaluator, comparison, scanA, scanB string) []reportRow {
	var rows []reportRow
	for _, kind := range models.AllMapKinds {
		pathA := octmap.MapPath(scanA, kind)
		pathB := octmap.MapPath(scanB, kind)

		imgA, err := octimage.LoadGray(pathA)
		if err != nil {
			log.Printf("Warning: skipping %s %s: %v", comparison, kind, err)
			continue
		}
		imgB, err := octimage.LoadGray(pathB)
		if err != nil {
			log.Printf("Warning: skipping %s %s: %v", comparison, kind, err)
			continue
		}
		if !imgA.SameShape(imgB) {
			imgB = octimage.Resample(imgB, imgA.Width, imgA.Height)
		}

		scores := eval.Evaluate(imgA, imgB)
		if scores == nil {
			log.Printf("Warning: evaluation failed for %s %s", comparison, kind)
			continue
		}
		rows = append(rows, reportRow{comparison: comparison, kind: kind, scores: scores})
	}
	return rows
}

// writeReport writes one CSV row per scored comparison and map kind.
func writeReport(path string, rows []reportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Comparison", "Map"}, similarity.MetricNames...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("error writing report header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.comparison, row.kind.String()}
		for _, name := range similarity.MetricNames {
			record = append(record, formatScore(row.scores, name))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("error writing report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatScore(scores similarity.PairScores, name string) string {
	v, ok := scores[name]
	if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
