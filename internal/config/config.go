// Package config provides centralized configuration for the chain indexing
// core. All tunable constants (flush cadence, fork depth, retention
// windows) are defined here; no hardcoded values of this kind should exist
// elsewhere in the codebase.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults for the tunables in spec §6. These are the platform's shipped
// values; tests override them on a per-Storage basis to exercise
// stabilization without waiting for real chain depth.
const (
	// DefaultStableFlushInterval is the block-height cadence at which
	// stabilization runs: every Nth accepted block.
	DefaultStableFlushInterval = 50

	// DefaultMaxForkDepth is the platform's canonical reorganization
	// depth: stabilization never promotes a block newer than tip - depth.
	DefaultMaxForkDepth = 50

	// DefaultNewTxCleanupWaitSecs bounds how long a loose (never-mined)
	// pending transaction survives before cleanup purges it.
	DefaultNewTxCleanupWaitSecs = 86400

	// DefaultBlockTransactionIndexBound is retained for config
	// compatibility with deployments that still set it. The transaction
	// cursor does not materialize a single multiplied sort key; it
	// compares (height, block_transaction_index) lexicographically, so
	// this value bounds nothing in the current query engine.
	DefaultBlockTransactionIndexBound = 1000
)

// Config holds all configuration for the chain indexing core.
type Config struct {
	// Storage holds database placement and engine tuning.
	Storage StorageConfig `yaml:"storage"`

	// Logging holds structured logger settings.
	Logging LoggingConfig `yaml:"logging"`

	// Tunables holds the stabilization/retention constants from spec §6.
	Tunables TunablesConfig `yaml:"tunables"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	// DataDir is the directory containing the SQLite database file.
	DataDir string `yaml:"data_dir"`

	// PageSize is the SQLite page size in bytes (a power of two between
	// 512 and 65536). It is loaded and saved with the config file, but
	// storage.New does not apply it: the database always uses the
	// engine's default page size.
	PageSize int `yaml:"page_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`
}

// TunablesConfig holds the stabilization/retention constants. Zero values
// fall back to the package defaults via WithDefaults.
type TunablesConfig struct {
	StableFlushInterval        int64 `yaml:"stable_flush_interval"`
	MaxForkDepth               int64 `yaml:"max_fork_depth"`
	NewTxCleanupWaitSecs       int64 `yaml:"new_tx_cleanup_wait_secs"`
	BlockTransactionIndexBound int64 `yaml:"block_transaction_index_bound"`
}

// WithDefaults returns a copy of t with zero fields replaced by the
// package defaults.
func (t TunablesConfig) WithDefaults() TunablesConfig {
	if t.StableFlushInterval == 0 {
		t.StableFlushInterval = DefaultStableFlushInterval
	}
	if t.MaxForkDepth == 0 {
		t.MaxForkDepth = DefaultMaxForkDepth
	}
	if t.NewTxCleanupWaitSecs == 0 {
		t.NewTxCleanupWaitSecs = DefaultNewTxCleanupWaitSecs
	}
	if t.BlockTransactionIndexBound == 0 {
		t.BlockTransactionIndexBound = DefaultBlockTransactionIndexBound
	}
	return t
}

// DefaultConfig returns a Config with every tunable at its shipped default.
func DefaultConfig(dataDir string) *Config {
	return &Config{
		Storage: StorageConfig{DataDir: dataDir},
		Logging: LoggingConfig{Level: "info"},
		Tunables: TunablesConfig{
			StableFlushInterval:        DefaultStableFlushInterval,
			MaxForkDepth:               DefaultMaxForkDepth,
			NewTxCleanupWaitSecs:       DefaultNewTxCleanupWaitSecs,
			BlockTransactionIndexBound: DefaultBlockTransactionIndexBound,
		},
	}
}

// ConfigPath returns the default config file path for a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(ExpandPath(dataDir), "config.yaml")
}

// Load reads and parses the YAML config file at <dataDir>/config.yaml. If
// the file does not exist, it writes out the default configuration first
// so subsequent edits have something to start from.
func Load(dataDir string) (*Config, error) {
	dataDir = ExpandPath(dataDir)
	path := ConfigPath(dataDir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig(dataDir)
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Storage.DataDir = dataDir
	cfg.Tunables = cfg.Tunables.WithDefaults()
	return cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
