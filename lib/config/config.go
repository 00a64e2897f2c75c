// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the task board
// client.
//
// Configuration is loaded from a single file specified by:
//   - TASKBOARD_CONFIG environment variable, or
//   - --config flag passed to the command
//
// When neither is set the built-in defaults apply. There is no
// automatic discovery beyond that; one file, or none.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the client configuration.
type Config struct {
	// Server configures the API endpoint.
	Server ServerConfig `yaml:"server"`

	// SessionFile overrides the session file location. Empty means
	// the well-known path (~/.config/taskboard/session.json).
	SessionFile string `yaml:"session_file"`

	// Board configures board presentation.
	Board BoardConfig `yaml:"board"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`
}

// ServerConfig configures the API endpoint.
type ServerConfig struct {
	// BaseURL is the API root, including the version prefix.
	// Default: http://localhost:8000/api/v1
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each API request. Default: 15s.
	Timeout time.Duration `yaml:"timeout"`
}

// BoardConfig configures board presentation.
type BoardConfig struct {
	// DueSoonDays is the look-ahead window for the "due soon" count.
	// Default: 7.
	DueSoonDays int `yaml:"due_soon_days"`

	// HideDone hides the done column on the personal dashboard.
	HideDone bool `yaml:"hide_done"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, or error.
	// Default: info.
	Level string `yaml:"level"`

	// File receives log output. Empty discards logs, keeping the
	// terminal free for the board.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 15 * time.Second,
		},
		Board: BoardConfig{
			DueSoonDays: 7,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the configuration from the path in TASKBOARD_CONFIG, or
// returns the defaults when the variable is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("TASKBOARD_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile reads the configuration from a specific file, layered over
// the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values that would fail later
// in confusing ways.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL (got %q)", c.Server.BaseURL)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive (got %s)", c.Server.Timeout)
	}
	if c.Board.DueSoonDays < 0 {
		return fmt.Errorf("board.due_soon_days must not be negative (got %d)", c.Board.DueSoonDays)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error (got %q)", c.Log.Level)
	}
	return nil
}

// LogLevel converts the configured level to its slog value.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
