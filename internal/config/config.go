// Package config loads CLI flags and environment configuration for the
// stamping tool.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Operation constants
	OpParse   = "parse"
	OpStamp   = "stamp"
	OpInspect = "inspect"

	// Default values
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 50 * 1024 * 1024 // 50MB
	DefaultMaxStreamSize = 512 * 1024       // per-stream decompression guard
)

// Config holds all configuration for the signature stamping tool.
type Config struct {
	// Operation to run: parse, stamp or inspect
	Op string

	// Input/output paths
	InputPath  string
	OutputPath string
	ValuesPath string

	// Engine limits
	MaxFileSize   int64
	MaxStreamSize int

	// Diagnostics
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Op:            OpParse,
		MaxFileSize:   DefaultMaxFileSize,
		MaxStreamSize: DefaultMaxStreamSize,
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetEnvPrefix("AHS")
	viper.AutomaticEnv()

	viper.SetDefault("op", cfg.Op)
	viper.SetDefault("in", cfg.InputPath)
	viper.SetDefault("out", cfg.OutputPath)
	viper.SetDefault("values", cfg.ValuesPath)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("maxstreamsize", cfg.MaxStreamSize)
	viper.SetDefault("loglevel", cfg.LogLevel)

	pflag.String("op", cfg.Op, "Operation: 'parse' placeholders, 'stamp' values, or 'inspect' structure")
	pflag.String("in", cfg.InputPath, "Input PDF template path")
	pflag.String("out", cfg.OutputPath, "Output path for the stamped PDF (stamp only)")
	pflag.String("values", cfg.ValuesPath, "JSON file of signer submissions (stamp only)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int("maxstreamsize", cfg.MaxStreamSize, "Maximum per-stream size before a stream is skipped")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")

	_ = viper.BindPFlag("op", pflag.Lookup("op"))
	_ = viper.BindPFlag("in", pflag.Lookup("in"))
	_ = viper.BindPFlag("out", pflag.Lookup("out"))
	_ = viper.BindPFlag("values", pflag.Lookup("values"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
	_ = viper.BindPFlag("maxstreamsize", pflag.Lookup("maxstreamsize"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))

	pflag.Parse()

	cfg.Op = viper.GetString("op")
	cfg.InputPath = viper.GetString("in")
	cfg.OutputPath = viper.GetString("out")
	cfg.ValuesPath = viper.GetString("values")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.MaxStreamSize = viper.GetInt("maxstreamsize")
	cfg.LogLevel = viper.GetString("loglevel")

	if cfg.InputPath != "" {
		if expanded, err := filepath.Abs(cfg.InputPath); err == nil {
			cfg.InputPath = expanded
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Op {
	case OpParse, OpStamp, OpInspect:
	default:
		return fmt.Errorf("op must be one of 'parse', 'stamp' or 'inspect', got %q", c.Op)
	}

	if c.InputPath == "" {
		return errors.New("input path cannot be empty")
	}

	if c.Op == OpStamp {
		if c.OutputPath == "" {
			return errors.New("output path is required for stamp")
		}
		if c.ValuesPath == "" {
			return errors.New("values file is required for stamp")
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.MaxStreamSize <= 0 {
		return errors.New("maximum stream size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Op: %s, InputPath: %s, OutputPath: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Op, c.InputPath, c.OutputPath, c.LogLevel, c.MaxFileSize)
}
