// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package dragdrop

import (
	"errors"
	"testing"
	"time"

	"github.com/Crabbercat/PBL4-Task-manager/lib/authorization"
	"github.com/Crabbercat/PBL4-Task-manager/lib/clock"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

func newController(t *testing.T) *Controller {
	t.Helper()
	return NewController(clock.Fake(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)), nil)
}

var (
	manager  = schema.User{ID: 1, Username: "mika"}
	assignee = schema.User{ID: 2, Username: "ren"}
)

func inProgressTask(id int64) schema.Task {
	a := assignee
	return schema.Task{
		ID:       id,
		Title:    "review code",
		Status:   schema.StatusInProgress,
		Creator:  schema.User{ID: 99},
		Assignee: &a,
	}
}

func TestDragToNewStatus(t *testing.T) {
	c := newController(t)

	if !c.Begin(manager, authorization.RoleManager, inProgressTask(9)) {
		t.Fatal("Begin refused a permitted drag")
	}
	if c.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", c.State())
	}
	c.HoverEnter(schema.StatusDone)
	if target, ok := c.Target(); !ok || target != schema.StatusDone {
		t.Fatalf("Target = %v %v, want done", target, ok)
	}
	commit, err := c.Release()
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if commit == nil || commit.Task.ID != 9 || commit.Target != schema.StatusDone {
		t.Fatalf("commit = %+v, want task 9 to done", commit)
	}
	if c.State() != StateCommitting {
		t.Fatalf("state = %v after release, want committing", c.State())
	}
	c.Finish(nil)
	if c.State() != StateIdle {
		t.Errorf("state = %v after finish, want idle", c.State())
	}
}

func TestReleaseOnSourceColumnIsNoop(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	c.HoverEnter(schema.StatusInProgress)
	commit, err := c.Release()
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if commit != nil {
		t.Errorf("commit = %+v, want none for a same-column drop", commit)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestPermissionGateBlocksDrag(t *testing.T) {
	c := newController(t)
	bystander := schema.User{ID: 50}
	if c.Begin(bystander, authorization.RoleMember, inProgressTask(9)) {
		t.Fatal("Begin accepted a drag the viewer may not perform")
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestPastDueCompletionRejectedLocally(t *testing.T) {
	c := newController(t)

	due := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	task := inProgressTask(3)
	task.DueDate = &due

	c.Begin(manager, authorization.RoleManager, task)
	c.HoverEnter(schema.StatusDone)
	commit, err := c.Release()
	if !errors.Is(err, ErrPastDue) {
		t.Fatalf("Release error = %v, want ErrPastDue", err)
	}
	if commit != nil {
		t.Errorf("commit = %+v, want none for a rejected drop", commit)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestPastDueGuardOnlyAppliesToDone(t *testing.T) {
	c := newController(t)

	due := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	task := inProgressTask(3)
	task.DueDate = &due

	c.Begin(manager, authorization.RoleManager, task)
	c.HoverEnter(schema.StatusToDo)
	commit, err := c.Release()
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if commit == nil || commit.Target != schema.StatusToDo {
		t.Fatalf("commit = %+v, want the to_do transition to go through", commit)
	}
}

func TestNilDueDateNeverBlocksCompletion(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(4))
	c.HoverEnter(schema.StatusDone)
	commit, err := c.Release()
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if commit == nil {
		t.Error("commit = nil, want the transition to be accepted")
	}
}

func TestSingleActiveDropzone(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	c.HoverEnter(schema.StatusToDo)
	c.HoverEnter(schema.StatusDone)
	if target, ok := c.Target(); !ok || target != schema.StatusDone {
		t.Errorf("Target = %v %v, want only the latest dropzone", target, ok)
	}
	c.HoverLeave()
	if _, ok := c.Target(); ok {
		t.Error("Target still set after HoverLeave")
	}
	if c.State() != StateDragging {
		t.Errorf("state = %v, want dragging", c.State())
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	c.HoverEnter(schema.StatusDone)
	c.Cancel()
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestEventsWithoutContextAreIgnored(t *testing.T) {
	c := newController(t)

	c.HoverEnter(schema.StatusDone)
	c.HoverLeave()
	commit, err := c.Release()
	if err != nil {
		t.Fatalf("Release with no context: %v", err)
	}
	if commit != nil {
		t.Errorf("commit = %+v, want none", commit)
	}
	c.Cancel()
	c.Finish(nil)
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}
}

func TestSecondDragWhileActiveIsRefused(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	if c.Begin(manager, authorization.RoleManager, inProgressTask(10)) {
		t.Fatal("Begin accepted a second drag while one was active")
	}
	if task, ok := c.Active(); !ok || task.ID != 9 {
		t.Errorf("Active = %v %v, want the original task 9", task.ID, ok)
	}
}

func TestInFlightCommitBlocksNewGestures(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	c.HoverEnter(schema.StatusDone)
	if _, err := c.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}

	// While the update is in flight the machine refuses new gestures.
	if c.Begin(manager, authorization.RoleManager, inProgressTask(10)) {
		t.Fatal("Begin accepted a drag while a commit was in flight")
	}
	c.Cancel()
	if c.State() != StateCommitting {
		t.Fatalf("state = %v, want committing to survive Cancel", c.State())
	}
	if commit, err := c.Release(); commit != nil || err != nil {
		t.Fatalf("Release while committing = %+v %v, want ignored", commit, err)
	}
	c.Finish(nil)
	if c.State() != StateIdle {
		t.Errorf("state = %v after finish, want idle", c.State())
	}
}

func TestCommitFailureRevertsToIdle(t *testing.T) {
	c := newController(t)

	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	c.HoverEnter(schema.StatusDone)
	if _, err := c.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	c.Finish(errors.New("500 from server"))
	if c.State() != StateIdle {
		t.Errorf("state = %v, want idle", c.State())
	}

	// The controller is reusable after a failure.
	c.Begin(manager, authorization.RoleManager, inProgressTask(9))
	c.HoverEnter(schema.StatusDone)
	commit, err := c.Release()
	if err != nil || commit == nil {
		t.Fatalf("Release after recovery = %+v %v", commit, err)
	}
	c.Finish(nil)
}

func TestAssigneeMayDragOwnTask(t *testing.T) {
	c := newController(t)
	if !c.Begin(assignee, authorization.RoleMember, inProgressTask(9)) {
		t.Fatal("assignee should be able to drag their own task")
	}
}
