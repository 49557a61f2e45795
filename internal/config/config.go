// Package config loads runtime settings: defaults overlaid with an optional
// YAML file, then with command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration.
type Config struct {
	Addr           string      `yaml:"addr"`
	Language       string      `yaml:"language"`
	CacheSize      int         `yaml:"cache_size"`
	MaxUploadBytes int64       `yaml:"max_upload_bytes"`
	Watch          WatchConfig `yaml:"watch"`
	Chart          ChartConfig `yaml:"chart"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Dir       string   `yaml:"dir"`
	OutputDir string   `yaml:"output_dir"` // empty writes reports beside inputs
	Patterns  []string `yaml:"patterns"`   // empty uses the watcher defaults
}

// ChartConfig sizes the rendered chart.
type ChartConfig struct {
	WidthPx  int `yaml:"width_px"`
	HeightPx int `yaml:"height_px"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           ":8080",
		Language:       "zh",
		CacheSize:      64,
		MaxUploadBytes: 8 << 20,
		Watch: WatchConfig{
			Dir: "./incoming",
		},
		Chart: ChartConfig{
			WidthPx:  640,
			HeightPx: 480,
		},
	}
}

// Load returns defaults overlaid with the YAML file at path. An empty path
// returns defaults; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.Language != "zh" && c.Language != "en" {
		errs = append(errs, fmt.Errorf("language %q is not one of zh, en", c.Language))
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes))
	}
	if c.Chart.WidthPx <= 0 || c.Chart.HeightPx <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %dx%d", c.Chart.WidthPx, c.Chart.HeightPx))
	}
	return errors.Join(errs...)
}
