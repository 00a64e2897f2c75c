// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package schema

// GlobalRole is a user's account-wide role. Admin is a superuser role
// that bypasses project-level role checks everywhere; the distinction
// between member and manager only matters inside a project.
type GlobalRole string

const (
	GlobalRoleMember  GlobalRole = "member"
	GlobalRoleManager GlobalRole = "manager"
	GlobalRoleAdmin   GlobalRole = "admin"
)

// User is the account summary the API returns for creators, assignees,
// owners, and the authenticated profile.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        GlobalRole `json:"role"`
}

// IsAdmin reports whether the user carries the global admin override.
func (u User) IsAdmin() bool { return u.Role == GlobalRoleAdmin }

// Label returns the name to display for the user: the display name
// when set, otherwise the username.
func (u User) Label() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown"
}
