// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package boardview composes grouped tasks, the viewer, and the
// authorization predicates into render-ready card data. The package
// holds no state: the renderer rebuilds the whole view on every pass,
// so permissions and summaries can never drift from the snapshot they
// were derived from.
package boardview

import (
	"fmt"
	"strings"
	"time"

	"github.com/Crabbercat/PBL4-Task-manager/lib/authorization"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// Card is one task prepared for rendering.
type Card struct {
	Task schema.Task

	// CanEdit shows the edit button.
	CanEdit bool
	// CanDelete shows the delete button.
	CanDelete bool
	// CanChangeStatus makes the status control an editable selector
	// and the card draggable. When false the status renders as a
	// plain label.
	CanChangeStatus bool

	// Summary is the one-line priority/assignee/due-date strip under
	// the title.
	Summary string
	// Tags are the task's tag chips, in declaration order.
	Tags []string
	// Overdue means the task has a due date in the past and is not
	// done.
	Overdue bool
}

// Column is one status bucket prepared for rendering.
type Column struct {
	Status schema.Status
	Title  string
	Cards  []Card
}

// Compose builds the three board columns for a viewer. now feeds the
// overdue marker; callers pass their clock's current time so the view
// stays deterministic under test.
func Compose(grouped schema.GroupedTasks, viewer schema.User, role authorization.Role, now time.Time) []Column {
	buckets := []struct {
		status schema.Status
		tasks  []schema.Task
	}{
		{schema.StatusToDo, grouped.ToDo},
		{schema.StatusInProgress, grouped.InProgress},
		{schema.StatusDone, grouped.Done},
	}
	columns := make([]Column, 0, len(buckets))
	for _, bucket := range buckets {
		column := Column{Status: bucket.status, Title: bucket.status.Label()}
		for _, task := range bucket.tasks {
			column.Cards = append(column.Cards, buildCard(task, viewer, role, now))
		}
		columns = append(columns, column)
	}
	return columns
}

func buildCard(task schema.Task, viewer schema.User, role authorization.Role, now time.Time) Card {
	return Card{
		Task:            task,
		CanEdit:         authorization.CanEditTask(viewer, role, task),
		CanDelete:       authorization.CanDeleteTask(role),
		CanChangeStatus: authorization.CanUpdateStatus(viewer, role, task),
		Summary:         Summarize(task, now),
		Tags:            task.TagList(),
		Overdue:         overdue(task, now),
	}
}

func overdue(task schema.Task, now time.Time) bool {
	if task.DueDate == nil || task.NormalizedStatus() == schema.StatusDone {
		return false
	}
	return task.DueDate.Before(now)
}

// Summarize renders the card's metadata strip, for example
// "High · ren · due Apr 1". Empty parts are omitted; an unassigned
// task shows no assignee segment rather than a placeholder.
func Summarize(task schema.Task, now time.Time) string {
	parts := []string{priorityLabel(task.Priority)}
	if task.Assignee != nil {
		parts = append(parts, task.Assignee.Label())
	}
	if task.DueDate != nil {
		parts = append(parts, dueLabel(*task.DueDate, now))
	}
	return strings.Join(parts, " · ")
}

func priorityLabel(p schema.Priority) string {
	normalized := schema.NormalizePriority(string(p))
	return strings.ToUpper(string(normalized[0])) + string(normalized[1:])
}

func dueLabel(due, now time.Time) string {
	text := due.Format("Jan 2")
	if due.Year() != now.Year() {
		text = due.Format("Jan 2 2006")
	}
	if due.Before(now) {
		return fmt.Sprintf("overdue %s", text)
	}
	return fmt.Sprintf("due %s", text)
}
