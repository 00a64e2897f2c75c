// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	stored := &Stored{
		Username:    "mika",
		AccessToken: "jwt-abc",
		Server:      "https://board.example.com/api/v1",
	}
	if err := SaveTo(stored, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if *loaded != *stored {
		t.Errorf("loaded = %+v, want %+v", loaded, stored)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing session file")
	}
}

func TestLoadRejectsIncompleteSession(t *testing.T) {
	tests := []struct {
		name   string
		stored Stored
	}{
		{"no username", Stored{AccessToken: "t", Server: "s"}},
		{"no token", Stored{Username: "u", Server: "s"}},
		{"no server", Stored{Username: "u", AccessToken: "t"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "session.json")
			if err := SaveTo(&test.stored, path); err != nil {
				t.Fatalf("SaveTo: %v", err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	stored := &Stored{Username: "u", AccessToken: "t", Server: "s"}
	if err := SaveTo(stored, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if err := RemoveFrom(path); err != nil {
		t.Fatalf("RemoveFrom: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file still exists after remove")
	}
	// Removing twice is fine.
	if err := RemoveFrom(path); err != nil {
		t.Errorf("RemoveFrom on missing file: %v", err)
	}
}

func TestFilePathEnvOverride(t *testing.T) {
	t.Setenv("TASKBOARD_SESSION_FILE", "/custom/session.json")
	if got := FilePath(); got != "/custom/session.json" {
		t.Errorf("FilePath = %q, want the override", got)
	}
}

func TestCurrentUserCachesProfile(t *testing.T) {
	var fetches atomic.Int64
	s := New(func(ctx context.Context) (schema.User, error) {
		fetches.Add(1)
		return schema.User{ID: 7, Username: "mika"}, nil
	})

	for range 3 {
		user, err := s.CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("CurrentUser: %v", err)
		}
		if user.ID != 7 {
			t.Errorf("user.ID = %d, want 7", user.ID)
		}
	}
	if n := fetches.Load(); n != 1 {
		t.Errorf("fetch ran %d times, want 1", n)
	}
}

func TestCurrentUserSingleFlight(t *testing.T) {
	var fetches atomic.Int64
	release := make(chan struct{})
	s := New(func(ctx context.Context) (schema.User, error) {
		fetches.Add(1)
		<-release
		return schema.User{ID: 7}, nil
	})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CurrentUser(context.Background()); err != nil {
				t.Errorf("CurrentUser: %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()
	if n := fetches.Load(); n != 1 {
		t.Errorf("fetch ran %d times under concurrency, want 1", n)
	}
}

func TestCurrentUserRetriesAfterFailure(t *testing.T) {
	var fetches atomic.Int64
	s := New(func(ctx context.Context) (schema.User, error) {
		if fetches.Add(1) == 1 {
			return schema.User{}, errors.New("transient")
		}
		return schema.User{ID: 7}, nil
	})

	if _, err := s.CurrentUser(context.Background()); err == nil {
		t.Fatal("first call succeeded, want error")
	}
	user, err := s.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("user.ID = %d, want 7", user.ID)
	}
}

func TestInvalidate(t *testing.T) {
	var fetches atomic.Int64
	s := New(func(ctx context.Context) (schema.User, error) {
		fetches.Add(1)
		return schema.User{ID: 7}, nil
	})
	if _, err := s.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	s.Invalidate()
	if _, loaded := s.Cached(); loaded {
		t.Error("profile still cached after Invalidate")
	}
	if _, err := s.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser after Invalidate: %v", err)
	}
	if n := fetches.Load(); n != 2 {
		t.Errorf("fetch ran %d times, want 2", n)
	}
}
