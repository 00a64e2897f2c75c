// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/Crabbercat/PBL4-Task-manager/lib/apiclient"
	"github.com/Crabbercat/PBL4-Task-manager/lib/board"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// runProjects is the non-interactive project surface. Board work
// happens in the TUI; project lifecycle and membership are one-shot
// commands.
func runProjects(args []string) error {
	var serverURL string
	var configPath string
	var role string

	flagSet := pflag.NewFlagSet("taskboard projects", pflag.ContinueOnError)
	flagSet.StringVar(&serverURL, "server", "", "API base URL (overrides the config file)")
	flagSet.StringVar(&configPath, "config", "", "path to the config file")
	flagSet.StringVar(&role, "role", "member", "role for add-member (member or manager)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	client, err := newAPIClient(configPath, serverURL)
	if err != nil {
		return err
	}
	ctx := context.Background()

	rest := flagSet.Args()
	subcommand := "list"
	if len(rest) > 0 {
		subcommand = rest[0]
		rest = rest[1:]
	}

	switch subcommand {
	case "list":
		return listProjects(ctx, client)
	case "create":
		if len(rest) != 1 {
			return fmt.Errorf("usage: taskboard projects create <name>")
		}
		project, err := client.CreateProject(ctx, schema.ProjectCreate{Name: rest[0]})
		if err != nil {
			return projectError(err)
		}
		fmt.Printf("Created project %d %q\n", project.ID, project.Name)
		return nil
	case "rename":
		if len(rest) != 2 {
			return fmt.Errorf("usage: taskboard projects rename <id> <name>")
		}
		projectID, err := parseProjectID(rest[0])
		if err != nil {
			return err
		}
		return renameProject(ctx, client, projectID, rest[1])
	case "archive", "restore":
		if len(rest) != 1 {
			return fmt.Errorf("usage: taskboard projects %s <id>", subcommand)
		}
		projectID, err := parseProjectID(rest[0])
		if err != nil {
			return err
		}
		toggle := client.ArchiveProject
		if subcommand == "restore" {
			toggle = client.RestoreProject
		}
		project, err := toggle(ctx, projectID)
		if err != nil {
			return projectError(err)
		}
		state := "restored"
		if project.Archived {
			state = "archived"
		}
		fmt.Printf("Project %q %s\n", project.Name, state)
		return nil
	case "delete":
		if len(rest) != 1 {
			return fmt.Errorf("usage: taskboard projects delete <id>")
		}
		projectID, err := parseProjectID(rest[0])
		if err != nil {
			return err
		}
		if err := client.DeleteProject(ctx, projectID); err != nil {
			return projectError(err)
		}
		fmt.Printf("Project %d deleted\n", projectID)
		return nil
	case "add-member":
		if len(rest) != 2 {
			return fmt.Errorf("usage: taskboard projects add-member <id> <username>")
		}
		projectID, err := parseProjectID(rest[0])
		if err != nil {
			return err
		}
		return addMember(ctx, client, projectID, rest[1], role)
	case "remove-member":
		if len(rest) != 2 {
			return fmt.Errorf("usage: taskboard projects remove-member <id> <username>")
		}
		projectID, err := parseProjectID(rest[0])
		if err != nil {
			return err
		}
		user, err := findUser(ctx, client, rest[1])
		if err != nil {
			return err
		}
		if err := client.RemoveMember(ctx, projectID, user.ID); err != nil {
			return projectError(err)
		}
		fmt.Printf("Removed %s from project %d\n", user.Username, projectID)
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q (list, create, rename, archive, restore, delete, add-member, remove-member)", subcommand)
	}
}

func listProjects(ctx context.Context, client *apiclient.Client) error {
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return projectError(err)
	}
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tNAME\tOWNER\tMEMBERS\tTASKS\tSTATE")
	for _, project := range projects {
		state := "active"
		if project.Archived {
			state = "archived"
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%d\t%d\t%s\n",
			project.ID, project.Name, project.Owner.Username,
			project.MemberCount, project.TaskCount, state)
	}
	return writer.Flush()
}

// renameProject carries the existing description and color forward so
// the explicit-null update does not clear them.
func renameProject(ctx context.Context, client *apiclient.Client, projectID int64, name string) error {
	project, err := client.GetProject(ctx, projectID)
	if err != nil {
		return projectError(err)
	}
	update := schema.ProjectUpdate{
		Name:        name,
		Description: keepString(project.Description),
		Color:       keepString(project.Color),
	}
	updated, err := client.UpdateProject(ctx, projectID, update)
	if err != nil {
		return projectError(err)
	}
	fmt.Printf("Project %d renamed to %q\n", updated.ID, updated.Name)
	return nil
}

func addMember(ctx context.Context, client *apiclient.Client, projectID int64, username, role string) error {
	memberRole := schema.ProjectRole(role)
	if memberRole != schema.ProjectRoleMember && memberRole != schema.ProjectRoleManager {
		return fmt.Errorf("role must be member or manager, got %q", role)
	}
	user, err := findUser(ctx, client, username)
	if err != nil {
		return err
	}
	project, err := client.AddMember(ctx, projectID, schema.MemberAdd{UserID: user.ID, Role: memberRole})
	if err != nil {
		return projectError(err)
	}
	fmt.Printf("Added %s to %q as %s\n", user.Username, project.Name, memberRole)
	return nil
}

// findUser resolves a username through the user search. An exact match
// wins; a single hit is accepted as a prefix shortcut.
func findUser(ctx context.Context, client *apiclient.Client, username string) (schema.User, error) {
	users, err := client.SearchUsers(ctx, username)
	if err != nil {
		return schema.User{}, projectError(err)
	}
	for _, user := range users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	if len(users) == 1 {
		return users[0], nil
	}
	return schema.User{}, fmt.Errorf("no user named %q", username)
}

// runTasks lists the personal dashboard without entering the TUI, for
// quick checks and scripting.
func runTasks(args []string) error {
	var serverURL string
	var configPath string

	flagSet := pflag.NewFlagSet("taskboard tasks", pflag.ContinueOnError)
	flagSet.StringVar(&serverURL, "server", "", "API base URL (overrides the config file)")
	flagSet.StringVar(&configPath, "config", "", "path to the config file")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	client, err := newAPIClient(configPath, serverURL)
	if err != nil {
		return err
	}
	ctx := context.Background()

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return projectError(err)
	}
	tasks, err := client.ListPersonalTasks(ctx)
	if err != nil {
		return projectError(err)
	}

	grouped := board.GroupByStatus(board.FilterForUser(tasks, user))
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, task := range grouped.Flatten() {
		due := "-"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\t%s\n",
			task.ID, task.NormalizedStatus(), schema.NormalizePriority(string(task.Priority)), due, task.Title)
	}
	return writer.Flush()
}

func parseProjectID(raw string) (int64, error) {
	projectID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || projectID <= 0 {
		return 0, fmt.Errorf("invalid project id %q", raw)
	}
	return projectID, nil
}

func keepString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// projectError rewraps API failures with their user-facing text.
func projectError(err error) error {
	return fmt.Errorf("%s", apiclient.UserMessage(err))
}
