// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Crabbercat/PBL4-Task-manager/lib/baseline"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// dateLayout is the date entry format for form fields.
const dateLayout = "2006-01-02"

// formAction is the outcome of feeding a key press to the form.
type formAction int

const (
	// formContinue means the form consumed the key and stays open.
	formContinue formAction = iota
	// formCancel means the user dismissed the form; nothing happens.
	formCancel
	// formSubmit means the form validated its inputs and the caller
	// should build the payload and send it.
	formSubmit
)

// TaskForm is the modal create/edit form. In edit mode it captures a
// normalized baseline of the task's fields when it opens; an
// unchanged submit is refused locally. Creation has no baseline.
type TaskForm struct {
	editing  bool
	personal bool
	taskID   int64

	names  []string
	labels []string
	inputs []textinput.Model
	focus  int

	baseline baseline.Snapshot

	// errorText is the inline validation message, cleared on the
	// next key press.
	errorText string
}

// newCreateForm opens an empty form for a new task.
func newCreateForm(personal bool) *TaskForm {
	form := &TaskForm{personal: personal}
	form.build(nil)
	return form
}

// newEditForm opens the form pre-filled from a task and snapshots the
// baseline for change detection.
func newEditForm(task schema.Task) *TaskForm {
	form := &TaskForm{
		editing:  true,
		personal: task.IsPersonal,
		taskID:   task.ID,
	}
	form.build(&task)
	form.baseline = baseline.Capture(form.fields())
	return form
}

// build constructs the input fields. Status is editable only on
// personal tasks; project task status changes go through the board,
// and tags only exist on project tasks.
func (form *TaskForm) build(task *schema.Task) {
	add := func(name, label, value, placeholder string) {
		input := textinput.New()
		input.Placeholder = placeholder
		input.SetValue(value)
		input.Prompt = ""
		form.names = append(form.names, name)
		form.labels = append(form.labels, label)
		form.inputs = append(form.inputs, input)
	}

	var title, description, priority, status, start, due, tags, assignee string
	if task != nil {
		title = task.Title
		description = task.Description
		priority = string(task.Priority)
		status = string(task.NormalizedStatus())
		if task.StartDate != nil {
			start = task.StartDate.Format(dateLayout)
		}
		if task.DueDate != nil {
			due = task.DueDate.Format(dateLayout)
		}
		tags = task.Tags
		if task.Assignee != nil {
			assignee = task.Assignee.Username
		}
	}

	add("title", "Title", title, "What needs doing?")
	add("description", "Description", description, "")
	add("priority", "Priority", priority, "low / medium / high")
	if form.editing && form.personal {
		add("status", "Status", status, "to_do / in_progress / done")
	}
	if form.personal {
		add("start_date", "Start date", start, dateLayout)
	}
	add("due_date", "Due date", due, dateLayout)
	if !form.personal {
		add("assignee", "Assignee", assignee, "username (blank = unassigned)")
		add("tags", "Tags", tags, "comma, separated")
	}
	form.inputs[0].Focus()
}

// Update feeds a key press to the form and reports what the caller
// should do next.
func (form *TaskForm) Update(message tea.KeyMsg) (formAction, tea.Cmd) {
	form.errorText = ""
	switch message.Type {
	case tea.KeyEsc:
		return formCancel, nil
	case tea.KeyEnter:
		if err := form.validate(); err != nil {
			form.errorText = err.Error()
			return formContinue, nil
		}
		if form.editing && !form.baseline.Changed(form.fields()) {
			form.errorText = baseline.NoChangesMessage
			return formContinue, nil
		}
		return formSubmit, nil
	case tea.KeyTab, tea.KeyDown:
		form.setFocus(form.focus + 1)
		return formContinue, nil
	case tea.KeyShiftTab, tea.KeyUp:
		form.setFocus(form.focus - 1)
		return formContinue, nil
	}

	var cmd tea.Cmd
	form.inputs[form.focus], cmd = form.inputs[form.focus].Update(message)
	return formContinue, cmd
}

func (form *TaskForm) setFocus(index int) {
	form.inputs[form.focus].Blur()
	form.focus = (index + len(form.inputs)) % len(form.inputs)
	form.inputs[form.focus].Focus()
}

// value returns the trimmed text of a named field, or "" when the
// form has no such field.
func (form *TaskForm) value(name string) string {
	for i, fieldName := range form.names {
		if fieldName == name {
			return strings.TrimSpace(form.inputs[i].Value())
		}
	}
	return ""
}

// fields exposes the form's current values for baseline comparison.
func (form *TaskForm) fields() map[string]any {
	fields := make(map[string]any, len(form.names))
	for i, name := range form.names {
		fields[name] = form.inputs[i].Value()
	}
	return fields
}

/// validate checks the fields that can fail: the title is required and
// dates must parse. A due date earlier than the start date is allowed;
// the server accepts it and the board never compares the two.
func (form *TaskForm) validate() error {
	if form.value("title") == "" {
		return errors.New("Title is required.")
	}
	if start := form.value("start_date"); start != "" {
		if _, err := time.Parse(dateLayout, start); err != nil {
			return fmt.Errorf("Enter the start date as %s.", dateLayout)
		}
	}
	if due := form.value("due_date"); due != "" {
		if _, err := time.Parse(dateLayout, due); err != nil {
			return fmt.Errorf("Enter the due date as %s.", dateLayout)
		}
	}
	if status := form.value("status"); status != "" {
		switch schema.Status(strings.ToLower(status)) {
		case schema.StatusToDo, schema.StatusInProgress, schema.StatusDone:
		default:
			return errors.New("Status must be to_do, in_progress, or done.")
		}
	}
	return nil
}

// dateValue parses a named date field. Call only after validate; an
// absent or blank field is nil.
func (form *TaskForm) dateValue(name string) *time.Time {
	value := form.value(name)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &parsed
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// createPayload builds the creation request from the form. Call only
// after a formSubmit outcome.
func (form *TaskForm) createPayload() schema.TaskCreate {
	return schema.TaskCreate{
		Title:       form.value("title"),
		Description: optionalString(form.value("description")),
		Priority:    schema.NormalizePriority(form.value("priority")),
		StartDate:   form.dateValue("start_date"),
		DueDate:     form.dateValue("due_date"),
		Tags:        optionalString(form.value("tags")),
		IsPersonal:  form.personal,
	}
}

// personalEditPayload builds the full edit payload for a personal
// task, with the completion flag locked to the status.
func (form *TaskForm) personalEditPayload() schema.PersonalTaskEdit {
	payload := schema.PersonalTaskEdit{
		Title:       form.value("title"),
		Description: optionalString(form.value("description")),
		Priority:    schema.NormalizePriority(form.value("priority")),
		Status:      schema.NormalizeStatus(form.value("status")),
		StartDate:   form.dateValue("start_date"),
		DueDate:     form.dateValue("due_date"),
	}
	payload.SyncCompleted()
	return payload
}

// projectEditPayload builds the full edit payload for a project task.
// AssigneeID is filled in by the caller once the assignee field's
// username has been resolved against the server.
func (form *TaskForm) projectEditPayload() schema.ProjectTaskEdit {
	return schema.ProjectTaskEdit{
		Title:       form.value("title"),
		Description: optionalString(form.value("description")),
		Priority:    schema.NormalizePriority(form.value("priority")),
		DueDate:     form.dateValue("due_date"),
		Tags:        optionalString(form.value("tags")),
	}
}

// View renders the form as a bordered modal box.
func (form *TaskForm) View(theme Theme, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText).Width(12)
	titleStyle := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(theme.Overdue)

	title := "New task"
	if form.editing {
		title = "Edit task"
	}
	lines := []string{titleStyle.Render(title), ""}
	for i, input := range form.inputs {
		lines = append(lines, labelStyle.Render(form.labels[i])+input.View())
	}
	if form.errorText != "" {
		lines = append(lines, "", errorStyle.Render(form.errorText))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.HelpText).Render("Enter save · Esc cancel · Tab next field"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Width(min(width-4, 64))
	return box.Render(strings.Join(lines, "\n"))
}
