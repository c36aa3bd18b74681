package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"synthoct/pkg/analysis"
	"synthoct/pkg/config"
	"synthoct/pkg/octmap"
	"synthoct/pkg/report"
	"synthoct/pkg/similarity"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "synthoct.yaml", "Path to YAML configuration file")
	inputDir := flag.String("input", "", "Dataset root containing one folder per image set")
	referenceSet := flag.String("reference", "", "Folder name used as the significance baseline")
	neighborDepth := flag.Int("depth", 0, "Neighbor depth for pair selection (0 uses config value)")
	outputDir := flag.String("output", "", "Output directory for CSV tables and plots")
	deriveMaps := flag.Bool("derive", true, "Generate missing OAC/SC/RSC maps before analysis")
	numCores := flag.Int("cores", 0, "Number of scoring workers (0 uses config value)")
	flag.Parse()

	// Load configuration and apply command-line overrides
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *inputDir != "" {
		cfg.Dataset.InputDir = *inputDir
	}
	if *referenceSet != "" {
		cfg.Dataset.ReferenceSet = *referenceSet
	}
	if *neighborDepth > 0 {
		cfg.Dataset.NeighborDepth = *neighborDepth
	}
	if *outputDir != "" {
		cfg.Dataset.OutputDir = *outputDir
	}
	if *numCores > 0 {
		cfg.Processing.NumWorkers = *numCores
	}
	cfg.Maps.Derive = *deriveMaps

	// Validate inputs
	if cfg.Dataset.InputDir == "" {
		flag.Usage()
		os.Exit(1)
	}
	if cfg.Dataset.ReferenceSet == "" {
		log.Fatalf("A reference set is required (use -reference or the config file)")
	}

	fmt.Println("================================")
	fmt.Println("SYNTHETIC OCT SCAN REALISM EVALUATION")
	fmt.Println("Derived-map similarity analysis with tiered significance")
	fmt.Println("================================")

	// Assemble metric capabilities from the configuration
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

	params := &analysis.Params{
		InputDir:       cfg.Dataset.InputDir,
		ReferenceSet:   cfg.Dataset.ReferenceSet,
		NeighborDepth:  cfg.Dataset.NeighborDepth,
		PercentileLow:  cfg.Metrics.PercentileLow,
		PercentileHigh: cfg.Metrics.PercentileHigh,
		NumWorkers:     cfg.Processing.NumWorkers,
		DeriveMaps:     cfg.Maps.Derive,
	}

	gen := octmap.NewGenerator(cfg.Maps.PixelSize, cfg.Maps.Window)
	analyzer := analysis.NewAnalyzer(params, similarity.NewEvaluator(caps), gen)

	fmt.Printf("Input dataset: %s\n", cfg.Dataset.InputDir)
	fmt.Printf("Reference set: %s\n", cfg.Dataset.ReferenceSet)
	fmt.Printf("Neighbor depth: %d, workers: %d\n", cfg.Dataset.NeighborDepth, cfg.Processing.NumWorkers)

	startTime := time.Now()
	results, err := analyzer.Run()
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	elapsed := time.Since(startTime)

	// Write the report artifacts
	outDir := cfg.OutputDir()
	if err := report.WriteRawTables(outDir, results.Comparisons); err != nil {
		log.Fatalf("Failed to write raw tables: %v", err)
	}
	if err := report.WriteSummary(outDir, results.Summary); err != nil {
		log.Fatalf("Failed to write summary table: %v", err)
	}
	if err := report.WritePlots(outDir, results.Summary); err != nil {
		log.Printf("Warning: failed to write plots: %v", err)
	}

	fmt.Printf("\nAnalysis completed in %.2f seconds\n", elapsed.Seconds())
	fmt.Printf("Image sets analyzed: %d\n", len(results.Folders))
	fmt.Printf("Comparison groups scored: %d\n", len(results.Comparisons))
	fmt.Printf("Results written to: %s\n", outDir)

	// Highlight verdicts that separated from the baseline
	separated := 0
	for _, row := range results.Summary {
		if row.DiagnosticPower {
			separated++
		}
	}
	fmt.Printf("Distributions separated from baseline: %d of %d\n", separated, len(results.Summary))
}
