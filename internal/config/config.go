// Package config provides configuration management for corecall.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/corecall/internal/ffi"
	"github.com/mrz1836/corecall/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version int           `yaml:"version"`
	Home    string        `yaml:"home"`
	Network NetworkConfig `yaml:"network"`
	Core    CoreConfig    `yaml:"core"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// NetworkConfig defines the node and faucet endpoints.
type NetworkConfig struct {
	RestURL         string  `yaml:"rest_url"`
	FaucetURL       string  `yaml:"faucet_url"`
	BalanceResource string  `yaml:"balance_resource"`
	RequestsPerSec  float64 `yaml:"requests_per_second"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
}

// CoreConfig defines settings of the in-process wallet core.
type CoreConfig struct {
	Backend          string `yaml:"backend"`
	Workers          int    `yaml:"workers"`
	MemoryLock       bool   `yaml:"memory_lock"`
	CallTimeoutSecs  int    `yaml:"call_timeout_seconds"`
	CloseTimeoutSecs int    `yaml:"close_timeout_seconds"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(ExpandHome(home), "config.yaml")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// GetHome returns the corecall home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// CoreParams returns the construction parameters handed to a core.
func (c *Config) CoreParams() ffi.CoreConfig {
	return ffi.CoreConfig{
		RestURL:   c.Network.RestURL,
		FaucetURL: c.Network.FaucetURL,
		LogLevel:  c.Logging.Level,
	}
}

// DefaultHome returns the default corecall home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".corecall"
	}
	return filepath.Join(home, ".corecall")
}
