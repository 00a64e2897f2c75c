// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Board.DueSoonDays != 7 {
		t.Errorf("DueSoonDays = %d, want 7", cfg.Board.DueSoonDays)
	}
	if cfg.Server.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want 15s", cfg.Server.Timeout)
	}
}

func TestLoadFileLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: https://board.example.com/api/v1
board:
  due_soon_days: 3
  hide_done: true
log:
  level: debug
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Server.BaseURL != "https://board.example.com/api/v1" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	// Unset fields keep their defaults.
	if cfg.Server.Timeout != 15*time.Second {
		t.Errorf("Timeout = %s, want default 15s", cfg.Server.Timeout)
	}
	if cfg.Board.DueSoonDays != 3 || !cfg.Board.HideDone {
		t.Errorf("Board = %+v", cfg.Board)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadUsesEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, "server:\n  base_url: https://env.example.com/api/v1\n")
	t.Setenv("TASKBOARD_CONFIG", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "https://env.example.com/api/v1" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
}

func TestLoadWithoutEnvironmentFallsBackToDefaults(t *testing.T) {
	t.Setenv("TASKBOARD_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != Default().Server.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.Server.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.Server.BaseURL = "localhost:8000" }},
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"negative due window", func(c *Config) { c.Board.DueSoonDays = -1 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestLoadFileRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "log:\n  level: loud\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("LoadFile accepted an invalid log level")
	}
}
