// Package config loads and saves the application's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/reclaim-sh/reclaim/internal/fsize"
	"github.com/reclaim-sh/reclaim/internal/protect"
	"github.com/reclaim-sh/reclaim/internal/scanner"
)

// Config is the application configuration.
type Config struct {
	// MaxWorkers bounds the parallel category scan.
	MaxWorkers int `yaml:"max_workers"`
	// IncludeDev enables the recursive project-artifact scan.
	IncludeDev bool `yaml:"include_dev"`
	// SizeMaxDepth bounds directory sizing recursion.
	SizeMaxDepth int `yaml:"size_max_depth"`
	// DiscoverMaxDepth bounds recursive pattern discovery.
	DiscoverMaxDepth int `yaml:"discover_max_depth"`
	// ProtectionFile overrides the protection file location.
	ProtectionFile string `yaml:"protection_file"`
	// DryRun makes every cleanup a preview by default.
	DryRun bool `yaml:"dry_run"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		MaxWorkers:       scanner.DefaultWorkers,
		IncludeDev:       false,
		SizeMaxDepth:     fsize.DefaultMaxDepth,
		DiscoverMaxDepth: fsize.DefaultDiscoverDepth,
		ProtectionFile:   protect.DefaultPath,
		DryRun:           false,
		Verbose:          false,
	}
}

// Load reads configuration from configPath, falling back to defaults
// when the file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to configPath, creating directories as
// needed.
func Save(cfg *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	if c.MaxWorkers < 0 {
		return fmt.Errorf("max_workers must be >= 0")
	}
	if c.SizeMaxDepth < 1 {
		return fmt.Errorf("size_max_depth must be >= 1")
	}
	if c.DiscoverMaxDepth < 1 {
		return fmt.Errorf("discover_max_depth must be >= 1")
	}
	return nil
}

// GetConfigPath returns the default config file location.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "reclaim", "config.yaml"), nil
}

// EnsureConfigExists writes a default config file if none exists and
// returns its path.
func EnsureConfigExists() (string, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(Default(), configPath); err != nil {
			return "", err
		}
	}
	return configPath, nil
}
