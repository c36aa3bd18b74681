// Package config provides configuration loading and management for the
// evaluation suite. It handles loading configuration from YAML files and
// provides the reference defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"synthoct/pkg/phantom"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Dataset parameters
	Dataset struct {
		// InputDir is the dataset root containing one folder per image set
		InputDir string `yaml:"inputDir"`

		// ReferenceSet is the folder name whose intra-class distribution
		// serves as the significance baseline
		ReferenceSet string `yaml:"referenceSet"`

		// NeighborDepth bounds how many neighboring indices each image is
		// paired with
		NeighborDepth int `yaml:"neighborDepth"`

		// OutputDir receives CSV tables and plots; empty derives
		// "Results_<inputDir>" next to the input
		OutputDir string `yaml:"outputDir"`
	} `yaml:"dataset"`

	// Derived-map estimator parameters
	Maps struct {
		// PixelSize is the depth pixel size in microns
		PixelSize float64 `yaml:"pixelSize"`

		// Window is the square window size for speckle contrast
		Window int `yaml:"window"`

		// Derive generates missing OAC/SC/RSC maps before analysis
		Derive bool `yaml:"derive"`
	} `yaml:"maps"`

	// Metric capability parameters
	Metrics struct {
		// EnableMSSSIM and EnableVIF toggle the multi-scale metrics
		EnableMSSSIM bool `yaml:"enableMSSSIM"`
		EnableVIF    bool `yaml:"enableVIF"`

		// LPIPSEndpoint is the learned-metric scorer service URL; empty
		// disables LPIPS
		LPIPSEndpoint string `yaml:"lpipsEndpoint"`

		// PercentileLow and PercentileHigh bound the empirical interval
		PercentileLow  float64 `yaml:"percentileLow"`
		PercentileHigh float64 `yaml:"percentileHigh"`
	} `yaml:"metrics"`

	// Processing parameters
	Processing struct {
		// NumWorkers is the number of concurrent scoring workers
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Scanner collaborator parameters
	Scanner struct {
		// ExePath is the external scan-simulation executable
		ExePath string `yaml:"exePath"`

		// Geometry holds the scan-simulation parameters
		Geometry phantom.ScanGeometry `yaml:"geometry"`
	} `yaml:"scanner"`
}

// DefaultConfig returns a configuration with the reference defaults
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Dataset.NeighborDepth = 5

	cfg.Maps.PixelSize = 6.0
	cfg.Maps.Window = 20
	cfg.Maps.Derive = true

	cfg.Metrics.EnableMSSSIM = true
	cfg.Metrics.EnableVIF = true
	cfg.Metrics.PercentileLow = 2.5
	cfg.Metrics.PercentileHigh = 97.5

	cfg.Processing.NumWorkers = runtime.NumCPU()

	cfg.Scanner.ExePath = "oct-scanner"
	cfg.Scanner.Geometry = phantom.DefaultGeometry()

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// OutputDir resolves the output directory, deriving it from the input
// directory name when unset
func (c *Config) OutputDir() string {
	if c.Dataset.OutputDir != "" {
		return c.Dataset.OutputDir
	}
	return "Results_" + filepath.Base(c.Dataset.InputDir)
}
