// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "time"

// ProjectRole is a membership role inside a single project. The owner
// is implicit (Project.Owner) and never listed as a plain member; the
// membership table only carries member and manager. "owner" still
// appears on the wire when the server echoes an effective role.
type ProjectRole string

const (
	ProjectRoleMember  ProjectRole = "member"
	ProjectRoleManager ProjectRole = "manager"
	ProjectRoleOwner   ProjectRole = "owner"
)

// Membership is one user's row in a project's membership table.
// Invariant (server-enforced, assumed here): a user appears at most
// once, and the owner is not listed.
type Membership struct {
	User     User        `json:"user"`
	Role     ProjectRole `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// Project is a shared task container with an owner and a membership
/// set. Archived is a soft state toggle: archived projects stay
// readable but refuse new tasks.
type Project struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Color       string       `json:"color,omitempty"`
	Archived    bool         `json:"archived"`
	Owner       User         `json:"owner"`
	Memberships []Membership `json:"memberships,omitempty"`
	MemberCount int          `json:"member_count"`
	TaskCount   int          `json:"task_count"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// MembershipOf returns the membership row for the given user ID, if
// any. The owner has no row; check Project.Owner separately.
func (p Project) MembershipOf(userID int64) (Membership, bool) {
	for _, member := range p.Memberships {
		if member.User.ID == userID {
			return member, true
		}
	}
	return Membership{}, false
}

// HasMember reports whether the user owns the project or appears in
// its membership table.
func (p Project) HasMember(userID int64) bool {
	if p.Owner.ID == userID {
		return true
	}
	_, ok := p.MembershipOf(userID)
	return ok
}

// ProjectSlim is the compact project reference embedded in tasks.
type ProjectSlim struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Archived bool   `json:"archived"`
	OwnerID  int64  `json:"owner_id"`
}

// ProjectCreate is the payload for creating a project.
type ProjectCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	MemberIDs   []int64 `json:"member_ids,omitempty"`
}

// ProjectUpdate is the payload for the project settings form. Fields
// are sent explicitly (null clears) rather than omitted, matching the
// server's partial-update handling of present keys.
type ProjectUpdate struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// MemberAdd is the payload for adding a user to a project.
type MemberAdd struct {
	UserID int64       `json:"user_id"`
	Role   ProjectRole `json:"role"`
}
