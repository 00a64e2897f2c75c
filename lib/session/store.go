// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the signed-in user's state: the bearer token
// persisted between runs, and the lazily fetched profile shared by
// everything that needs to know who is looking at the board.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Stored is the on-disk session. Stored at the well-known path
// returned by FilePath and loaded automatically by commands that
// require authentication. Set up once via "taskboard login", then
// transparent.
type Stored struct {
	// Username identifies the account, for display and for the
	// "logged in as" line.
	Username string `json:"username"`

	// AccessToken is the bearer token proving the user's identity.
	AccessToken string `json:"access_token"`

	// Server is the API base URL the token was issued by, so later
	// runs talk to the same server without repeating the flag.
	Server string `json:"server"`
}

// FilePath returns the path to the session file. Checks the
// TASKBOARD_SESSION_FILE environment variable first, then falls back
// to ~/.config/taskboard/session.json.
func FilePath() string {
	if envPath := os.Getenv("TASKBOARD_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "taskboard-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "taskboard", "session.json")
}

// Load reads the session from the well-known path. Returns a clear
// error directing the user to "taskboard login" if no session exists.
func Load() (*Stored, error) {
	return LoadFrom(FilePath())
}

// LoadFrom reads a session from a specific file path.
func LoadFrom(path string) (*Stored, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found at %s — run \"taskboard login\" first", path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var stored Stored
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	if stored.Username == "" {
		return nil, fmt.Errorf("session file %s has no username", path)
	}
	if stored.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access_token", path)
	}
	if stored.Server == "" {
		return nil, fmt.Errorf("session file %s has no server", path)
	}
	return &stored, nil
}

// Save writes the session to the well-known path.
func Save(stored *Stored) error {
	return SaveTo(stored, FilePath())
}

// SaveTo writes a session to a specific file path. Creates the parent
// directory with mode 0700 if it doesn't exist. The file is written
// with mode 0600 since it contains an access token.
func SaveTo(stored *Stored, path string) error {
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", path, err)
	}
	return nil
}

// Remove deletes the session file at the well-known path. Used by
// sign-out; a missing file is not an error.
func Remove() error {
	return RemoveFrom(FilePath())
}

// RemoveFrom deletes a session file at a specific path.
func RemoveFrom(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", path, err)
	}
	return nil
}
