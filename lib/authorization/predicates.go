// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package authorization

import "github.com/Crabbercat/PBL4-Task-manager/lib/schema"

// CanEditTask reports whether the viewer may open the full edit form
// for a task: managers and above edit anything in the project; plain
// members edit only tasks they created.
func CanEditTask(viewer schema.User, role Role, task schema.Task) bool {
	if role.AtLeast(RoleManager) {
		return true
	}
	return task.Creator.ID == viewer.ID
}

// CanDeleteTask reports whether the viewer may delete tasks. Deletion
// is purely role-gated: creating a task does not grant the right to
// delete it.
func CanDeleteTask(role Role) bool {
	return role.AtLeast(RoleManager)
}

// CanUpdateStatus reports whether the viewer may move a task between
// statuses (drag, selector, completion toggle). Anyone who can edit
// the task can, and so can its assignee even when they could not edit
// anything else about it.
func CanUpdateStatus(viewer schema.User, role Role, task schema.Task) bool {
	if CanEditTask(viewer, role, task) {
		return true
	}
	return task.Assignee != nil && task.Assignee.ID == viewer.ID
}

// CanManageMembers reports whether the viewer may add or remove
// project members.
func CanManageMembers(role Role) bool {
	return role.AtLeast(RoleManager)
}

// CanManageSettings reports whether the viewer may change project
// settings, archive/restore, or delete the project. Owner only (the
// global admin override ranks above owner and passes too).
func CanManageSettings(role Role) bool {
	return role.AtLeast(RoleOwner)
}
