package commands

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Engines accepted by --engine.
const (
	engineGraph = "graph"
	engineBrute = "brute"
	engineBoth  = "both"
)

// Config holds settings read from the --config file. Command-line flags
// take precedence over it.
type Config struct {
	Engine     string `yaml:"engine"`
	Workers    int    `yaml:"workers"`
	Iterations int    `yaml:"iterations"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	MetricsOut string `yaml:"metrics_out"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Engine:     engineGraph,
		Workers:    runtime.GOMAXPROCS(0),
		Iterations: 1,
		LogLevel:   "info",
		LogFormat:  "auto",
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	switch c.Engine {
	case engineGraph, engineBrute, engineBoth:
	default:
		return fmt.Errorf("unsupported engine: %s (use 'graph', 'brute' or 'both')", c.Engine)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", c.Iterations)
	}
	switch c.LogFormat {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("unsupported log format: %s (use 'auto', 'console' or 'json')", c.LogFormat)
	}
	return nil
}
