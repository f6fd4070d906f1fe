// Package config loads runtime settings for the ascend binary from an
// optional YAML file and ASCEND_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvSeed      = "ASCEND_SEED"
	EnvLogFile   = "ASCEND_LOG_FILE"
	EnvTelemetry = "ASCEND_TELEMETRY"
)

// Telemetry controls trace export.
type Telemetry struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Config holds every runtime setting. Zero Seed means time-seeded.
type Config struct {
	Seed             int64         `yaml:"seed"`
	Plain            bool          `yaml:"plain"`
	Trace            bool          `yaml:"trace"`
	LogFile          string        `yaml:"log_file"`
	TrainingInterval time.Duration `yaml:"training_interval"`
	TrainCycles      int           `yaml:"train_cycles"`
	Telemetry        Telemetry     `yaml:"telemetry"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TrainingInterval: time.Second,
		TrainCycles:      10,
		Telemetry:        Telemetry{ServiceName: "ascend"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/ascend/config.yaml, or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "ascend", "config.yaml"), nil
}

// Load reads settings from path and applies environment overrides.
// An empty path means DefaultPath, where a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv(EnvTelemetry); ok && v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvTelemetry, err)
		}
		cfg.Telemetry.Enabled = on
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.TrainingInterval <= 0 {
		errs = append(errs, fmt.Errorf("training_interval must be positive, got %s", c.TrainingInterval))
	}
	if c.TrainCycles < 1 {
		errs = append(errs, fmt.Errorf("train_cycles must be at least 1, got %d", c.TrainCycles))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
