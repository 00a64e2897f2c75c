// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package dragdrop drives status transitions as an explicit state
// machine: Idle, Dragging, Hovering, Committing. The controller is
// decoupled from rendering and from the network; it validates the
// gesture and hands an accepted drop back to the caller as a Commit.
// The renderer only reads the controller's state to draw highlights.
package dragdrop

import (
	"errors"
	"log/slog"

	"github.com/Crabbercat/PBL4-Task-manager/lib/authorization"
	"github.com/Crabbercat/PBL4-Task-manager/lib/clock"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// State is the controller's position in the gesture lifecycle.
type State int

const (
	// StateIdle means no drag is active.
	StateIdle State = iota
	// StateDragging means a card has been picked up but is not over
	// a dropzone.
	StateDragging
	// StateHovering means the drag is over exactly one dropzone.
	StateHovering
	// StateCommitting means a drop was accepted and the status update
	// request is in flight.
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateHovering:
		return "hovering"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// ErrPastDue rejects a transition to done for a task whose due date
// has already passed. The guard fires before any request is sent.
var ErrPastDue = errors.New("task is past its due date")

// PastDueMessage is the user-facing text for ErrPastDue.
const PastDueMessage = "Adjust the due date before marking it done."

// Commit describes an accepted drop. The caller issues the status
// update and reports the outcome with Finish.
type Commit struct {
	Task   schema.Task
	Target schema.Status
}

// Controller validates one drag gesture at a time. Only one drag
// context exists per board; drop and hover events arriving with no
// active context are ignored rather than treated as errors.
//
// Controller is confined to the UI event loop and is not safe for
// concurrent use.
type Controller struct {
	clock clock.Clock
	log   *slog.Logger

	state  State
	task   schema.Task
	source schema.Status
	target schema.Status
}

// NewController creates a controller.
func NewController(clk clock.Clock, log *slog.Logger) *Controller {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{clock: clk, log: log}
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

// Active returns the task being dragged, if any.
func (c *Controller) Active() (schema.Task, bool) {
	if c.state == StateIdle {
		return schema.Task{}, false
	}
	return c.task, true
}

// Target returns the highlighted dropzone, if the drag is hovering
// over one. At most one dropzone is highlighted at any instant.
func (c *Controller) Target() (schema.Status, bool) {
	if c.state != StateHovering {
		return "", false
	}
	return c.target, true
}

// Begin starts a drag for the given card. It refuses when the viewer
// may not update the task's status, and when a drag is already
// active. A refused card simply never enters the machine.
func (c *Controller) Begin(viewer schema.User, role authorization.Role, task schema.Task) bool {
	if c.state != StateIdle {
		return false
	}
	if !authorization.CanUpdateStatus(viewer, role, task) {
		return false
	}
	c.state = StateDragging
	c.task = task
	c.source = task.NormalizedStatus()
	return true
}

// HoverEnter highlights a dropzone. Entering a second dropzone clears
// the previous highlight. Without an active drag the event is ignored.
func (c *Controller) HoverEnter(zone schema.Status) {
	if c.state != StateDragging && c.state != StateHovering {
		return
	}
	c.state = StateHovering
	c.target = zone
}

// HoverLeave clears the dropzone highlight, returning to a plain drag.
func (c *Controller) HoverLeave() {
	if c.state != StateHovering {
		return
	}
	c.state = StateDragging
}

// Cancel ends the gesture without a drop. A gesture already in flight
// cannot be cancelled.
func (c *Controller) Cancel() {
	if c.state == StateIdle || c.state == StateCommitting {
		return
	}
	c.reset()
}

// Release ends the gesture over the highlighted dropzone. Dropping on
// the source column is a no-op returning a nil Commit. A transition to
// done is rejected with ErrPastDue when the task's due date is
// strictly in the past; a task without a due date is never blocked.
// An accepted drop moves the controller to Committing and returns the
// Commit for the caller to issue; the caller must call Finish with the
// request's outcome. Releases with no active context are ignored.
func (c *Controller) Release() (*Commit, error) {
	if c.state != StateHovering {
		return nil, nil
	}
	task, target := c.task, c.target
	if target == c.source {
		c.reset()
		return nil, nil
	}
	if target == schema.StatusDone && task.DueDate != nil && task.DueDate.Before(c.clock.Now()) {
		c.log.Debug("rejected past-due completion", "task", task.ID, "due", task.DueDate)
		c.reset()
		return nil, ErrPastDue
	}

	c.state = StateCommitting
	return &Commit{Task: task, Target: target}, nil
}

// Finish resolves an in-flight commit. On failure the controller
// returns to Idle and leaves the displayed status for the re-render to
// restore.
func (c *Controller) Finish(err error) {
	if c.state != StateCommitting {
		return
	}
	if err != nil {
		c.log.Warn("status update failed", "task", c.task.ID, "status", c.target, "error", err)
	}
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.task = schema.Task{}
	c.source = ""
	c.target = ""
}
