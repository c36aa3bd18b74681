package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dataset.NeighborDepth != 5 {
		t.Errorf("Expected neighbor depth 5, got %d", cfg.Dataset.NeighborDepth)
	}
	if cfg.Maps.PixelSize != 6.0 {
		t.Errorf("Expected pixel size 6.0, got %g", cfg.Maps.PixelSize)
	}
	if cfg.Maps.Window != 20 {
		t.Errorf("Expected window 20, got %d", cfg.Maps.Window)
	}
	if !cfg.Maps.Derive {
		t.Error("Expected map derivation enabled by default")
	}
	if cfg.Metrics.PercentileLow != 2.5 || cfg.Metrics.PercentileHigh != 97.5 {
		t.Errorf("Expected [2.5, 97.5] percentiles, got [%g, %g]",
			cfg.Metrics.PercentileLow, cfg.Metrics.PercentileHigh)
	}
	if cfg.Processing.NumWorkers <= 0 {
		t.Errorf("Expected positive worker count, got %d", cfg.Processing.NumWorkers)
	}
	if cfg.Scanner.Geometry.DepthPixels != 256 || cfg.Scanner.Geometry.LateralPixels != 512 {
		t.Errorf("Unexpected default geometry: %+v", cfg.Scanner.Geometry)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/synthoct.yaml")
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got error: %v", err)
	}
	if cfg.Dataset.NeighborDepth != 5 {
		t.Errorf("Expected default neighbor depth, got %d", cfg.Dataset.NeighborDepth)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	yaml := `
dataset:
  inputDir: /data/scans
  referenceSet: Dens_200000
  neighborDepth: 8
metrics:
  enableVIF: false
  lpipsEndpoint: http://localhost:5003
scanner:
  geometry:
    scattererCount: 100000
`
	path := filepath.Join(tmpDir, "synthoct.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Dataset.ReferenceSet != "Dens_200000" {
		t.Errorf("Expected reference set override, got %q", cfg.Dataset.ReferenceSet)
	}
	if cfg.Dataset.NeighborDepth != 8 {
		t.Errorf("Expected neighbor depth 8, got %d", cfg.Dataset.NeighborDepth)
	}
	if cfg.Metrics.EnableVIF {
		t.Error("Expected VIF disabled by the file")
	}
	if !cfg.Metrics.EnableMSSSIM {
		t.Error("Expected untouched MS-SSIM default to survive")
	}
	if cfg.Metrics.LPIPSEndpoint != "http://localhost:5003" {
		t.Errorf("Unexpected LPIPS endpoint %q", cfg.Metrics.LPIPSEndpoint)
	}
	if cfg.Scanner.Geometry.ScattererCount != 100000 {
		t.Errorf("Expected scatterer count override, got %d", cfg.Scanner.Geometry.ScattererCount)
	}
	if cfg.Scanner.Geometry.DepthPixels != 256 {
		t.Errorf("Expected untouched geometry default to survive, got %d", cfg.Scanner.Geometry.DepthPixels)
	}
	if cfg.Maps.Window != 20 {
		t.Errorf("Expected untouched maps default to survive, got %d", cfg.Maps.Window)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "broken.yaml")
	if err := os.WriteFile(path, []byte("dataset: ["), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected parse error for invalid YAML")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := DefaultConfig()
	cfg.Dataset.InputDir = "/data/scans"
	cfg.Dataset.ReferenceSet = "Ref"

	path := filepath.Join(tmpDir, "nested", "synthoct.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip changed the configuration:\nsaved:  %+v\nloaded: %+v", cfg, loaded)
	}
}

func TestOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dataset.InputDir = "/data/oct_scans"
	if got := cfg.OutputDir(); got != "Results_oct_scans" {
		t.Errorf("Expected derived output dir, got %q", got)
	}

	cfg.Dataset.OutputDir = "/out"
	if got := cfg.OutputDir(); got != "/out" {
		t.Errorf("Expected explicit output dir, got %q", got)
	}
}
