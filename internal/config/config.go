// Package config holds the runtime configuration for a hue-variants batch.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment overrides, then whatever the command line sets explicitly.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInputDir        = "input"
	DefaultOutputDir       = "output"
	DefaultHueSteps        = 10
	DefaultSaturationSteps = 3
	DefaultCacheSeedSize   = 1000
	DefaultWriteRetries    = 2

	// LogLevelEnv overrides log_level from the config file.
	LogLevelEnv = "HUE_VARIANTS_LOG_LEVEL"
)

// Skip policies decide when an existing artifact counts as done.
const (
	SkipExists      = "exists"
	SkipFingerprint = "fingerprint"
)

// Config models hue-variants.yaml.
type Config struct {
	InputDir        string   `yaml:"input_directory"`
	OutputDir       string   `yaml:"output_directory"`
	HueSteps        int      `yaml:"hue_steps"`
	SaturationSteps int      `yaml:"saturation_steps"`
	Workers         int      `yaml:"worker_count"`
	Extensions      []string `yaml:"extensions"`
	CacheSeedSize   int      `yaml:"cache_seed_size"`
	SkipPolicy      string   `yaml:"skip_policy"`
	WriteRetries    int      `yaml:"write_retries"`
	LogLevel        string   `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		InputDir:        DefaultInputDir,
		OutputDir:       DefaultOutputDir,
		HueSteps:        DefaultHueSteps,
		SaturationSteps: DefaultSaturationSteps,
		Extensions:      []string{".png"},
		CacheSeedSize:   DefaultCacheSeedSize,
		SkipPolicy:      SkipExists,
		WriteRetries:    DefaultWriteRetries,
		LogLevel:        "info",
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file
// keep their default values. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if level := strings.TrimSpace(os.Getenv(LogLevelEnv)); level != "" {
		c.LogLevel = level
	}
}

// Normalize fills zero values and canonicalizes extensions.
func (c *Config) Normalize() {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.SkipPolicy == "" {
		c.SkipPolicy = SkipExists
	}
	exts := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	c.Extensions = exts
}

// Validate reports configuration that cannot run. Zero or negative step
// counts are not errors; they simply produce no work.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.InputDir) == "" {
		errs = append(errs, errors.New("input_directory must not be empty"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("output_directory must not be empty"))
	}
	switch c.SkipPolicy {
	case SkipExists, SkipFingerprint:
	default:
		errs = append(errs, fmt.Errorf("unknown skip_policy %q", c.SkipPolicy))
	}
	if c.CacheSeedSize < 0 {
		errs = append(errs, fmt.Errorf("cache_seed_size must be >= 0, got %d", c.CacheSeedSize))
	}
	if c.WriteRetries < 0 {
		errs = append(errs, fmt.Errorf("write_retries must be >= 0, got %d", c.WriteRetries))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a log_level string onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}
