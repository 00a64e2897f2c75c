// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

func makeTask(id int64, title string, status string) schema.Task {
	return schema.Task{ID: id, Title: title, Status: schema.Status(status)}
}

func taskIDs(tasks []schema.Task) []int64 {
	ids := make([]int64, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGroupByStatus(t *testing.T) {
	tasks := []schema.Task{
		makeTask(1, "write report", "to_do"),
		makeTask(2, "review code", "in_progress"),
		makeTask(3, "ship release", "done"),
		makeTask(4, "fix login", "to_do"),
		makeTask(5, "draft notes", "in_progress"),
	}
	grouped := GroupByStatus(tasks)
	if got := taskIDs(grouped.ToDo); !equalIDs(got, []int64{1, 4}) {
		t.Errorf("ToDo = %v, want [1 4]", got)
	}
	if got := taskIDs(grouped.InProgress); !equalIDs(got, []int64{2, 5}) {
		t.Errorf("InProgress = %v, want [2 5]", got)
	}
	if got := taskIDs(grouped.Done); !equalIDs(got, []int64{3}) {
		t.Errorf("Done = %v, want [3]", got)
	}
}

func TestGroupByStatusUnknownStatus(t *testing.T) {
	// Statuses the board does not know about must still show up
	// somewhere, and that somewhere is the to-do column.
	tasks := []schema.Task{
		makeTask(1, "odd one", "blocked"),
		makeTask(2, "empty status", ""),
		makeTask(3, "normal", "done"),
	}
	grouped := GroupByStatus(tasks)
	if got := taskIDs(grouped.ToDo); !equalIDs(got, []int64{1, 2}) {
		t.Errorf("ToDo = %v, want [1 2]", got)
	}
	if len(grouped.InProgress) != 0 || len(grouped.Done) != 1 {
		t.Errorf("unexpected buckets: in_progress=%d done=%d", len(grouped.InProgress), len(grouped.Done))
	}
}

func TestGroupByStatusEmpty(t *testing.T) {
	grouped := GroupByStatus(nil)
	if n := len(grouped.Flatten()); n != 0 {
		t.Errorf("expected empty board, got %d tasks", n)
	}
}

func TestFilterForUser(t *testing.T) {
	viewer := schema.User{ID: 7}
	other := schema.User{ID: 9}
	assignee7 := schema.User{ID: 7}

	tasks := []schema.Task{
		{ID: 1, IsPersonal: true, Creator: viewer},
		{ID: 2, IsPersonal: true, Creator: other},
		{ID: 3, Creator: other, Assignee: &assignee7},
		// Created by the viewer but assigned to somebody else: not
		// on the viewer's dashboard.
		{ID: 4, Creator: viewer, Assignee: &schema.User{ID: 9}},
		{ID: 5, Creator: other},
	}
	got := taskIDs(FilterForUser(tasks, viewer))
	if !equalIDs(got, []int64{1, 3}) {
		t.Errorf("FilterForUser = %v, want [1 3]", got)
	}
}

func datePtr(t time.Time) *time.Time { return &t }

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	grouped := schema.GroupedTasks{
		ToDo: []schema.Task{
			{ID: 1, Status: schema.StatusToDo, DueDate: datePtr(now.Add(48 * time.Hour))},
			{ID: 2, Status: schema.StatusToDo, DueDate: datePtr(now.Add(10 * 24 * time.Hour))},
			{ID: 3, Status: schema.StatusToDo, DueDate: datePtr(now.Add(-24 * time.Hour))},
			{ID: 4, Status: schema.StatusToDo},
		},
		InProgress: []schema.Task{
			{ID: 5, Status: schema.StatusInProgress, DueDate: datePtr(now.Add(6 * 24 * time.Hour))},
		},
		Done: []schema.Task{
			// Done tasks never count as due soon, even inside the window.
			{ID: 6, Status: schema.StatusDone, DueDate: datePtr(now.Add(time.Hour))},
		},
	}
	stats := ComputeStats(grouped, now, 7)
	if stats.Total != 6 {
		t.Errorf("Total = %d, want 6", stats.Total)
	}
	if stats.InProgress != 1 {
		t.Errorf("InProgress = %d, want 1", stats.InProgress)
	}
	if stats.Done != 1 {
		t.Errorf("Done = %d, want 1", stats.Done)
	}
	if stats.DueSoon != 2 {
		t.Errorf("DueSoon = %d, want 2 (tasks 1 and 5)", stats.DueSoon)
	}
}

func TestComputeStatsWindowBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	grouped := schema.GroupedTasks{
		ToDo: []schema.Task{
			{ID: 1, Status: schema.StatusToDo, DueDate: datePtr(now)},
			{ID: 2, Status: schema.StatusToDo, DueDate: datePtr(now.Add(7 * 24 * time.Hour))},
			{ID: 3, Status: schema.StatusToDo, DueDate: datePtr(now.Add(7*24*time.Hour + time.Second))},
		},
	}
	stats := ComputeStats(grouped, now, 7)
	if stats.DueSoon != 2 {
		t.Errorf("DueSoon = %d, want 2 (due now and due at exactly seven days)", stats.DueSoon)
	}
}

func TestStoreRefresh(t *testing.T) {
	tasks := []schema.Task{makeTask(1, "a", "to_do")}
	store := NewStore(func(ctx context.Context) ([]schema.Task, error) {
		return tasks, nil
	}, nil)

	if _, loaded := store.Snapshot(); loaded {
		t.Fatal("store reported a snapshot before any refresh")
	}
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	grouped, loaded := store.Snapshot()
	if !loaded {
		t.Fatal("store not loaded after successful refresh")
	}
	if len(grouped.ToDo) != 1 {
		t.Errorf("ToDo = %d tasks, want 1", len(grouped.ToDo))
	}
	if store.Err() != nil {
		t.Errorf("Err = %v, want nil", store.Err())
	}
}

func TestStoreKeepsSnapshotOnFailedRefresh(t *testing.T) {
	fetchErr := errors.New("connection reset")
	fail := false
	store := NewStore(func(ctx context.Context) ([]schema.Task, error) {
		if fail {
			return nil, fetchErr
		}
		return []schema.Task{makeTask(1, "a", "to_do"), makeTask(2, "b", "done")}, nil
	}, nil)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	fail = true
	if err := store.Refresh(context.Background()); !errors.Is(err, fetchErr) {
		t.Fatalf("second Refresh error = %v, want %v", err, fetchErr)
	}

	grouped, loaded := store.Snapshot()
	if !loaded {
		t.Fatal("failed refresh must not mark the store unloaded")
	}
	if n := len(grouped.Flatten()); n != 2 {
		t.Errorf("snapshot has %d tasks after failed refresh, want the previous 2", n)
	}
	if store.Err() == nil {
		t.Error("Err = nil after failed refresh, want the fetch error")
	}

	// A later success clears the error and replaces the snapshot.
	fail = false
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("third Refresh: %v", err)
	}
	if store.Err() != nil {
		t.Errorf("Err = %v after recovery, want nil", store.Err())
	}
}

func TestStoreFirstLoadFailure(t *testing.T) {
	store := NewStore(func(ctx context.Context) ([]schema.Task, error) {
		return nil, errors.New("boom")
	}, nil)
	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh succeeded unexpectedly")
	}
	if _, loaded := store.Snapshot(); loaded {
		t.Error("store reported loaded after a failed first load")
	}
}
