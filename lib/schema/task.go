// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strings"
	"time"
)

// Status is a task's workflow state. The board has exactly three
// columns; everything else on the wire collapses into to_do.
type Status string

const (
	StatusToDo       Status = "to_do"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists the known statuses in board column order.
func Statuses() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusDone}
}

// NormalizeStatus maps a raw status string to one of the three known
// statuses. Unknown or empty values become StatusToDo — a deliberate
// default for forward compatibility with server-side statuses this
// client does not know, not an error.
func NormalizeStatus(raw string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusInProgress:
		return StatusInProgress
	case StatusDone:
		return StatusDone
	case StatusToDo:
		return StatusToDo
	default:
		return StatusToDo
	}
}

// Label returns the human-readable form of a status ("In Progress").
func (s Status) Label() string {
	words := strings.Split(string(s), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// NormalizePriority lower-cases a raw priority and defaults unknown or
// empty values to medium, mirroring the server's default.
func NormalizePriority(raw string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Task is a work item, either personal (visible only to its creator)
// or belonging to a project. For personal tasks the server keeps
// Completed and Status in lockstep: completed is true iff status is
// done. Every mutation path in this client preserves that invariant.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Completed   bool         `json:"completed"`
	Status      Status       `json:"status"`
	Priority    Priority     `json:"priority"`
	StartDate   *time.Time   `json:"start_date,omitempty"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        string       `json:"tags,omitempty"`
	IsPersonal  bool         `json:"is_personal,omitempty"`
	Project     *ProjectSlim `json:"project,omitempty"`
	Creator     User         `json:"creator"`
	Assignee    *User        `json:"assignee,omitempty"`
	ParentID    *int64       `json:"parent_task_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NormalizedStatus returns the task's status folded into the three
// known values.
func (t Task) NormalizedStatus() Status {
	return NormalizeStatus(string(t.Status))
}

// AssigneeID returns the assignee's user ID, or 0 when unassigned.
func (t Task) AssigneeID() int64 {
	if t.Assignee == nil {
		return 0
	}
	return t.Assignee.ID
}

// CompletionConsistent reports whether the personal-task lockstep
// invariant holds. Always true for project tasks, where completed is
// an independent checkbox.
func (t Task) CompletionConsistent() bool {
	if !t.IsPersonal {
		return true
	}
	return t.Completed == (t.NormalizedStatus() == StatusDone)
}

// TagList splits the comma-separated Tags field into trimmed,
// non-empty tag strings.
func (t Task) TagList() []string {
	if t.Tags == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(t.Tags, ",") {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

// GroupedTasks is the server's pre-grouped response for project task
// listings. Board code still routes it through board.GroupByStatus so
// stray statuses inside a bucket cannot bypass normalization.
type GroupedTasks struct {
	ToDo       []Task `json:"to_do"`
	InProgress []Task `json:"in_progress"`
	Done       []Task `json:"done"`
}

// Flatten concatenates the buckets in column order.
func (g GroupedTasks) Flatten() []Task {
	flat := make([]Task, 0, len(g.ToDo)+len(g.InProgress)+len(g.Done))
	flat = append(flat, g.ToDo...)
	flat = append(flat, g.InProgress...)
	flat = append(flat, g.Done...)
	return flat
}

// TaskCreate is the payload for creating a task, personal or
// project-scoped. Project task creation posts to the project's task
// collection and may carry tags and an assignee.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        *string    `json:"tags,omitempty"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
	IsPersonal  bool       `json:"is_personal,omitempty"`
}

// StatusChange is the minimal payload for a status transition (drag
// drop, inline selector).
type StatusChange struct {
	Status Status `json:"status"`
}

// CompletionChange is the payload for the completion checkbox. When a
// personal task is completed the status rides along so the lockstep
// invariant holds server-side in one write.
type CompletionChange struct {
	Completed bool    `json:"completed"`
	Status    *Status `json:"status,omitempty"`
}

// CompleteTask builds the CompletionChange for toggling a task. For
// personal tasks, completing also moves the status to done.
func CompleteTask(task Task, completed bool) CompletionChange {
	change := CompletionChange{Completed: completed}
	if task.IsPersonal && completed {
		status := StatusDone
		change.Status = &status
	}
	return change
}

// PersonalTaskEdit is the full edit-form payload for a personal task.
// Nullable fields are sent explicitly (null clears the value on the
// server). Call SyncCompleted before submitting.
type PersonalTaskEdit struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
}

// SyncCompleted enforces the personal lockstep invariant on the
/// outgoing payload: completed is derived from status, never set
// independently.
func (e *PersonalTaskEdit) SyncCompleted() {
	e.Completed = e.Status == StatusDone
}

// ProjectTaskEdit is the full edit-form payload for a project task.
// Status is not part of the form; it changes through StatusChange.
type ProjectTaskEdit struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        *string    `json:"tags"`
	AssigneeID  *int64     `json:"assignee_id"`
}
