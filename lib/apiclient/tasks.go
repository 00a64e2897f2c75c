// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// ListTasks returns every task visible to the authenticated user.
func (client *Client) ListTasks(ctx context.Context) ([]schema.Task, error) {
	var tasks []schema.Task
	if err := client.get(ctx, "/tasks/", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPersonalTasks returns the user's personal tasks.
func (client *Client) ListPersonalTasks(ctx context.Context) ([]schema.Task, error) {
	var tasks []schema.Task
	if err := client.get(ctx, "/tasks/personal/", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task.
func (client *Client) GetTask(ctx context.Context, taskID int64) (schema.Task, error) {
	var task schema.Task
	if err := client.get(ctx, fmt.Sprintf("/tasks/%d", taskID), &task); err != nil {
		return schema.Task{}, err
	}
	return task, nil
}

// CreateTask creates a personal or project task.
func (client *Client) CreateTask(ctx context.Context, payload schema.TaskCreate) (schema.Task, error) {
	var task schema.Task
	if err := client.post(ctx, "/tasks/", payload, &task); err != nil {
		return schema.Task{}, err
	}
	return task, nil
}

// UpdateTask applies a partial update to a task. payload is one of the
// schema update shapes: StatusChange for a bare status transition,
// CompletionChange for the completion toggle, PersonalTaskEdit or
// ProjectTaskEdit for full edit forms. The server merges only the
// fields the payload carries.
func (client *Client) UpdateTask(ctx context.Context, taskID int64, payload any) (schema.Task, error) {
	var task schema.Task
	if err := client.put(ctx, fmt.Sprintf("/tasks/%d", taskID), payload, &task); err != nil {
		return schema.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task.
func (client *Client) DeleteTask(ctx context.Context, taskID int64) error {
	return client.delete(ctx, fmt.Sprintf("/tasks/%d", taskID))
}

// ProjectTaskOptions filters a project's grouped task listing. Zero
// values mean no filter.
type ProjectTaskOptions struct {
	// Status keeps only one bucket's tasks (the other buckets come
	// back empty).
	Status schema.Status

	// AssigneeID keeps only tasks assigned to this user.
	AssigneeID int64
}

func (options ProjectTaskOptions) queryParams() string {
	values := url.Values{}
	if options.Status != "" {
		values.Set("status", string(options.Status))
	}
	if options.AssigneeID != 0 {
		values.Set("assignee_id", strconv.FormatInt(options.AssigneeID, 10))
	}
	return values.Encode()
}

// ProjectTasks returns a project's tasks pre-grouped by status.
func (client *Client) ProjectTasks(ctx context.Context, projectID int64, options ProjectTaskOptions) (schema.GroupedTasks, error) {
	path := fmt.Sprintf("/projects/%d/tasks", projectID)
	if query := options.queryParams(); query != "" {
		path += "?" + query
	}
	var grouped schema.GroupedTasks
	if err := client.get(ctx, path, &grouped); err != nil {
		return schema.GroupedTasks{}, err
	}
	return grouped, nil
}

// CreateProjectTask creates a task inside a project.
func (client *Client) CreateProjectTask(ctx context.Context, projectID int64, payload schema.TaskCreate) (schema.Task, error) {
	var task schema.Task
	path := fmt.Sprintf("/projects/%d/tasks", projectID)
	if err := client.post(ctx, path, payload, &task); err != nil {
		return schema.Task{}, err
	}
	return task, nil
}
