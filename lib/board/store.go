// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// FetchFunc retrieves the current flat task list. Refresh never
// inspects the transport; any error shape works.
type FetchFunc func(ctx context.Context) ([]schema.Task, error)

// Store holds the board's task snapshot and applies the refresh
// failure policy: a failed refresh keeps the previous snapshot and
// records the error, so the board never blanks out under a flaky
// connection. The only time an error coincides with an empty board is
// when the very first load fails.
//
// Refresh runs off the UI loop, so the snapshot is guarded for
// concurrent reads. Callers should still serialize refreshes; two in
// flight race on which snapshot wins.
type Store struct {
	fetch FetchFunc
	log   *slog.Logger

	mu      sync.Mutex
	grouped schema.GroupedTasks
	loaded  bool
	lastErr error
}

// NewStore creates a store around a fetch function. A nil logger
// discards log output.
func NewStore(fetch FetchFunc, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{fetch: fetch, log: log}
}

// Refresh fetches the full task list and replaces the snapshot. The
// board always re-fetches after a mutation rather than patching the
// snapshot in place, so the server's view wins. On failure the
// previous snapshot survives and the error is retained for the banner.
func (s *Store) Refresh(ctx context.Context) error {
	tasks, err := s.fetch(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.log.Warn("task refresh failed", "error", err, "have_snapshot", s.loaded)
		return err
	}
	s.grouped = GroupByStatus(tasks)
	s.loaded = true
	s.lastErr = nil
	return nil
}

// Snapshot returns the grouped tasks from the last successful refresh
// and whether any refresh has succeeded yet.
func (s *Store) Snapshot() (schema.GroupedTasks, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grouped, s.loaded
}

// Err returns the error from the most recent refresh, or nil if it
// succeeded. A non-nil error with loaded true means the board is
// showing stale data.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
