// Package config provides loading and parsing of engine.yaml configuration
// files. Engine configurations name the registry catalogs and tune the
// analysis components.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents an engine.yaml configuration file.
type Config struct {
	// Registries names the catalog files the engine loads at startup.
	Registries RegistriesConfig `yaml:"registries"`

	// Detector tunes the phase detector.
	Detector *DetectorConfig `yaml:"detector,omitempty"`

	// Attribution tunes the attribution engine.
	Attribution *AttributionConfig `yaml:"attribution,omitempty"`

	// Validation tunes the statistical validator.
	Validation *ValidationConfig `yaml:"validation,omitempty"`
}

// RegistriesConfig names the tool and actor catalog files. Relative
// paths are resolved against the config file's directory by Load.
type RegistriesConfig struct {
	Tools  string `yaml:"tools"`
	Actors string `yaml:"actors"`
}

// DetectorConfig tunes the phase detector.
type DetectorConfig struct {
	// WindowSize is the number of trailing events the detector
	// classifies over. Default: 5.
	WindowSize int `yaml:"window_size,omitempty"`
}

// GetWindowSize returns the configured window size or the default value.
func (d *DetectorConfig) GetWindowSize() int {
	if d == nil || d.WindowSize <= 0 {
		return 5
	}
	return d.WindowSize
}

// AttributionConfig tunes the attribution engine.
type AttributionConfig struct {
	// MinScore is the score floor below which a chain is reported as
	// unattributed. Default: 0 (any positive score attributes).
	MinScore float64 `yaml:"min_score,omitempty"`
}

// GetMinScore returns the configured score floor or the default value.
func (a *AttributionConfig) GetMinScore() float64 {
	if a == nil || a.MinScore < 0 {
		return 0
	}
	return a.MinScore
}

// ValidationConfig tunes the statistical validator.
type ValidationConfig struct {
	// Seed is the master seed for trial generators. Default: 1.
	Seed uint64 `yaml:"seed,omitempty"`

	// Parallelism caps concurrent trials. Default: number of CPUs.
	Parallelism int `yaml:"parallelism,omitempty"`

	// Trials is the default simulation count for validation runs.
	// Default: 1000.
	Trials int `yaml:"trials,omitempty"`
}

// GetSeed returns the configured seed or the default value.
func (v *ValidationConfig) GetSeed() uint64 {
	if v == nil || v.Seed == 0 {
		return 1
	}
	return v.Seed
}

// GetTrials returns the configured trial count or the default value.
func (v *ValidationConfig) GetTrials() int {
	if v == nil || v.Trials <= 0 {
		return 1000
	}
	return v.Trials
}

// Load reads and parses an engine.yaml file from the given path. If the
// path is a directory, it looks for engine.yaml or engine.yml in that
// directory. Relative registry paths are resolved against the config
// file's directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var configPath string
	if info.IsDir() {
		yamlPath := filepath.Join(path, "engine.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "engine.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				configPath = ymlPath
			} else {
				return nil, fmt.Errorf("no engine.yaml or engine.yml found in %s", path)
			}
		}
	} else {
		configPath = path
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	base := filepath.Dir(configPath)
	if config.Registries.Tools != "" && !filepath.IsAbs(config.Registries.Tools) {
		config.Registries.Tools = filepath.Join(base, config.Registries.Tools)
	}
	if config.Registries.Actors != "" && !filepath.IsAbs(config.Registries.Actors) {
		config.Registries.Actors = filepath.Join(base, config.Registries.Actors)
	}

	return &config, nil
}

// LoadFromDir searches for engine.yaml starting from the given directory
// and walking up to parent directories until found or root is reached.
func LoadFromDir(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		config, err := Load(absDir)
		if err == nil {
			return config, nil
		}

		parent := filepath.Dir(absDir)
		if parent == absDir {
			return nil, fmt.Errorf("no engine.yaml found in %s or parent directories", dir)
		}
		absDir = parent
	}
}
