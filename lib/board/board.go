// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package board turns flat task lists into the grouped, filtered, and
// summarized shape the board renders from. Grouping is the single
// point where unknown status strings are normalized; everything
// downstream can assume exactly three well-formed buckets.
package board

import (
	"time"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// GroupByStatus splits tasks into the three status buckets. Order
// within each bucket follows the input order, so the server's sort is
// what the board shows. Tasks with an unrecognized status land in the
// to-do bucket rather than vanishing.
func GroupByStatus(tasks []schema.Task) schema.GroupedTasks {
	var grouped schema.GroupedTasks
	for _, task := range tasks {
		switch task.NormalizedStatus() {
		case schema.StatusInProgress:
			grouped.InProgress = append(grouped.InProgress, task)
		case schema.StatusDone:
			grouped.Done = append(grouped.Done, task)
		default:
			grouped.ToDo = append(grouped.ToDo, task)
		}
	}
	return grouped
}

// FilterForUser keeps the tasks that belong on the viewer's personal
// dashboard: personal tasks they created, and project tasks assigned
// to them. Project tasks created by the viewer but assigned elsewhere
// are someone else's work and are excluded.
func FilterForUser(tasks []schema.Task, viewer schema.User) []schema.Task {
	var mine []schema.Task
	for _, task := range tasks {
		if task.IsPersonal {
			if task.Creator.ID == viewer.ID {
				mine = append(mine, task)
			}
			continue
		}
		if task.AssigneeID() == viewer.ID {
			mine = append(mine, task)
		}
	}
	return mine
}

// Stats summarizes a grouped board for the header line. The counts
// are recomputed from a full snapshot on every call; nothing here is
// patched incrementally.
type Stats struct {
	Total      int
	InProgress int
	Done       int
	// DueSoon counts unfinished tasks whose due date falls within the
	// configured window from now. Overdue tasks are not "due soon";
	// they are late.
	DueSoon int
}

// ComputeStats derives the header counts from a grouped snapshot.
// dueSoonDays is the look-ahead window; the personal dashboard uses
// seven days.
func ComputeStats(grouped schema.GroupedTasks, now time.Time, dueSoonDays int) Stats {
	stats := Stats{
		Total:      len(grouped.ToDo) + len(grouped.InProgress) + len(grouped.Done),
		InProgress: len(grouped.InProgress),
		Done:       len(grouped.Done),
	}
	window := time.Duration(dueSoonDays) * 24 * time.Hour
	for _, task := range grouped.Flatten() {
		if task.NormalizedStatus() == schema.StatusDone || task.DueDate == nil {
			continue
		}
		until := task.DueDate.Sub(now)
		if until >= 0 && until <= window {
			stats.DueSoon++
		}
	}
	return stats
}
