// Package config provides configuration loading and management for benchkit.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration for benchkit.
type Config struct {
	Harness  HarnessConfig     `toml:"harness"`
	Datasets map[string]string `toml:"datasets"` // benchmark name -> default dataset path
}

// HarnessConfig contains harness-specific settings.
type HarnessConfig struct {
	ResultsDir string `toml:"results_dir"`
	MaxItems   int    `toml:"max_items"`   // default item cap for evaluation runs, 0 = all
	SampleSize int    `toml:"sample_size"` // default number of items shown by the sample command
}

// Default configuration values.
var Default = Config{
	Harness: HarnessConfig{
		ResultsDir: "./results",
		MaxItems:   0,
		SampleSize: 5,
	},
}

// configPaths returns the list of paths to search for config files.
func configPaths() []string {
	paths := []string{"./benchkit.toml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".benchkit.toml"))
		paths = append(paths, filepath.Join(home, ".config", "benchkit", "config.toml"))
	}

	return paths
}

// Load loads configuration from a file or discovers it automatically.
// If configFile is empty, it searches standard locations.
// Returns default config if no file is found.
func Load(configFile string) (*Config, error) {
	cfg := Default // Start with defaults

	var path string
	if configFile != "" {
		path = configFile
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else {
		for _, p := range configPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return &cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Ensure critical fields aren't zeroed out by partial config
	if cfg.Harness.ResultsDir == "" {
		cfg.Harness.ResultsDir = Default.Harness.ResultsDir
	}
	if cfg.Harness.SampleSize <= 0 {
		cfg.Harness.SampleSize = Default.Harness.SampleSize
	}
	if cfg.Harness.MaxItems < 0 {
		cfg.Harness.MaxItems = 0
	}

	return &cfg, nil
}

// DatasetPath returns the configured dataset path for a benchmark, or ""
// when none is configured.
func (c *Config) DatasetPath(benchmark string) string {
	if c.Datasets == nil {
		return ""
	}
	return c.Datasets[benchmark]
}
