// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorization decides, per viewer, project role, and task,
// which board actions are permitted. The predicates are pure functions
// over an enumerated role hierarchy; they gate both UI visibility and
// whether a mutation request is attempted at all. A denied action
// fails fast locally and never reaches the network.
//
// This is a UX gate, not a security boundary: the server re-validates
// every mutation. The client's job is to never offer an action the
// server would reject on role grounds.
package authorization

import (
	"fmt"
	"strings"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// Role is a viewer's effective role for one project, folded over the
// global admin override and project ownership. The type is a closed
// enum with an explicit total order; an illegal role string is a parse
// error, never a silent zero rank.
type Role int

const (
	// RoleMember is the floor: plain membership, and also the value
	// assigned to non-members for UI purposes (the server is the real
	// gate for non-member access).
	RoleMember Role = iota
	// RoleManager can manage tasks and members but not project
	// settings.
	RoleManager
	// RoleOwner is the project owner: full control of the project.
	RoleOwner
	// RoleAdmin is the global override, independent of any project's
	// membership table. It outranks owner everywhere.
	RoleAdmin
)

// String returns the wire form of the role.
func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleManager:
		return "manager"
	case RoleOwner:
		return "owner"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole converts a role string to its enumerated value. Unknown
// strings are an error rather than defaulting to the floor, so typos
// in role data surface instead of silently demoting.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "member":
		return RoleMember, nil
	case "manager":
		return RoleManager, nil
	case "owner":
		return RoleOwner, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleMember, fmt.Errorf("unknown role %q", raw)
	}
}

// AtLeast reports whether r ranks at or above required. UI elements
// tagged with a minimum role are shown iff AtLeast(requirement).
func (r Role) AtLeast(required Role) bool { return r >= required }

// EffectiveRole computes the viewer's role for a project: admin if the
// viewer's global role is admin; owner if they own the project; their
// membership role otherwise; the member floor when they are not in the
// membership table at all.
func EffectiveRole(viewer schema.User, project schema.Project) Role {
	if viewer.IsAdmin() {
		return RoleAdmin
	}
	if project.Owner.ID == viewer.ID {
		return RoleOwner
	}
	if membership, ok := project.MembershipOf(viewer.ID); ok {
		if role, err := ParseRole(string(membership.Role)); err == nil {
			return role
		}
	}
	return RoleMember
}
