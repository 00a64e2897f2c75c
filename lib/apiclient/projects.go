// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"fmt"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// ListProjects returns the projects the authenticated user can see.
func (client *Client) ListProjects(ctx context.Context) ([]schema.Project, error) {
	var projects []schema.Project
	if err := client.get(ctx, "/projects/", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns a project with its full membership list.
func (client *Client) GetProject(ctx context.Context, projectID int64) (schema.Project, error) {
	var project schema.Project
	if err := client.get(ctx, fmt.Sprintf("/projects/%d", projectID), &project); err != nil {
		return schema.Project{}, err
	}
	return project, nil
}

// CreateProject creates a project owned by the authenticated user.
func (client *Client) CreateProject(ctx context.Context, payload schema.ProjectCreate) (schema.Project, error) {
	var project schema.Project
	if err := client.post(ctx, "/projects/", payload, &project); err != nil {
		return schema.Project{}, err
	}
	return project, nil
}

// UpdateProject applies a partial update to a project's settings.
func (client *Client) UpdateProject(ctx context.Context, projectID int64, payload schema.ProjectUpdate) (schema.Project, error) {
	var project schema.Project
	if err := client.put(ctx, fmt.Sprintf("/projects/%d", projectID), payload, &project); err != nil {
		return schema.Project{}, err
	}
	return project, nil
}

// DeleteProject hard-deletes a project. The server cascades the
// project's tasks.
func (client *Client) DeleteProject(ctx context.Context, projectID int64) error {
	return client.delete(ctx, fmt.Sprintf("/projects/%d", projectID))
}

// ArchiveProject soft-archives a project. Archived projects refuse new
// tasks but keep their history.
func (client *Client) ArchiveProject(ctx context.Context, projectID int64) (schema.Project, error) {
	var project schema.Project
	if err := client.post(ctx, fmt.Sprintf("/projects/%d/archive", projectID), nil, &project); err != nil {
		return schema.Project{}, err
	}
	return project, nil
}

// RestoreProject reverses an archive.
func (client *Client) RestoreProject(ctx context.Context, projectID int64) (schema.Project, error) {
	var project schema.Project
	if err := client.post(ctx, fmt.Sprintf("/projects/%d/restore", projectID), nil, &project); err != nil {
		return schema.Project{}, err
	}
	return project, nil
}

// AddMember adds a user to a project's membership list.
func (client *Client) AddMember(ctx context.Context, projectID int64, payload schema.MemberAdd) (schema.Project, error) {
	var project schema.Project
	if err := client.post(ctx, fmt.Sprintf("/projects/%d/members/", projectID), payload, &project); err != nil {
		return schema.Project{}, err
	}
	return project, nil
}

// RemoveMember removes a user from a project's membership list.
func (client *Client) RemoveMember(ctx context.Context, projectID, userID int64) error {
	return client.delete(ctx, fmt.Sprintf("/projects/%d/members/%d", projectID, userID))
}
