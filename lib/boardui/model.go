// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Crabbercat/PBL4-Task-manager/lib/apiclient"
	"github.com/Crabbercat/PBL4-Task-manager/lib/authorization"
	"github.com/Crabbercat/PBL4-Task-manager/lib/board"
	"github.com/Crabbercat/PBL4-Task-manager/lib/clock"
	"github.com/Crabbercat/PBL4-Task-manager/lib/dragdrop"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
	"github.com/Crabbercat/PBL4-Task-manager/lib/session"
)

// noticeFadeDelay is how long transient notices stay visible.
const noticeFadeDelay = 3 * time.Second

// Backend is the API surface the board consumes. *apiclient.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	ListTasks(ctx context.Context) ([]schema.Task, error)
	ProjectTasks(ctx context.Context, projectID int64, options apiclient.ProjectTaskOptions) (schema.GroupedTasks, error)
	GetProject(ctx context.Context, projectID int64) (schema.Project, error)
	CreateTask(ctx context.Context, payload schema.TaskCreate) (schema.Task, error)
	CreateProjectTask(ctx context.Context, projectID int64, payload schema.TaskCreate) (schema.Task, error)
	UpdateTask(ctx context.Context, taskID int64, payload any) (schema.Task, error)
	DeleteTask(ctx context.Context, taskID int64) error
	SearchUsers(ctx context.Context, query string) ([]schema.User, error)
}

// FocusRegion identifies where keyboard input routes.
type FocusRegion int

const (
	// FocusBoard means keys drive the column/card cursor and move
	// mode.
	FocusBoard FocusRegion = iota
	// FocusForm means keys go to the create/edit form.
	FocusForm
	// FocusConfirm means a confirm dialog is open and all input
	// resolves it.
	FocusConfirm
)

// AuthExpiredMsg is injected from outside the model (via
// Program.Send) when any API request came back 401. The board shuts
// down; there is no retry path for an expired session.
type AuthExpiredMsg struct{}

// profileLoadedMsg delivers the initial profile fetch.
type profileLoadedMsg struct {
	user schema.User
	err  error
}

// projectLoadedMsg delivers the initial project fetch (project boards
// only).
type projectLoadedMsg struct {
	project schema.Project
	err     error
}

// boardRefreshedMsg delivers the result of a store refresh.
type boardRefreshedMsg struct {
	err error
}

// mutationDoneMsg delivers the result of a create/update/delete.
type mutationDoneMsg struct {
	notice string
	err    error
}

// dropDoneMsg delivers the result of a drag commit; the drag
// controller sits in Committing until it arrives.
type dropDoneMsg struct {
	err error
}

// noticeFadeMsg clears the transient notice.
type noticeFadeMsg struct{}

// Config assembles a board model.
type Config struct {
	// Backend performs the API calls. Required.
	Backend Backend

	// Session provides the authenticated user's profile. Required.
	Session *session.Session

	// ProjectID selects a project board. Zero means the personal
	// dashboard.
	ProjectID int64

	// DueSoonDays is the look-ahead window for the stats line.
	// Defaults to 7.
	DueSoonDays int

	// HideDone hides the done column on the personal dashboard.
	HideDone bool

	// Clock provides time operations. Defaults to clock.Real().
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to a discard
	// logger so the terminal stays clean.
	Logger *slog.Logger
}

// Model is the bubbletea model for the board.
type Model struct {
	backend Backend
	session *session.Session
	clock   clock.Clock
	log     *slog.Logger
	theme   Theme
	keys    KeyMap

	projectID   int64
	dueSoonDays int
	hideDone    bool

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// Initial load: the profile fetch, the first board refresh, and
	// (for project boards) the project fetch are issued together and
	// awaited jointly before the first real render.
	pendingLoads int

	viewer  schema.User
	project schema.Project
	role    authorization.Role

	store *board.Store
	drag  *dragdrop.Controller

	// Cursor position: column index into visibleStatuses, row index
	// into that column's cards.
	column int
	row    int

	focus   FocusRegion
	form    *TaskForm
	confirm *ConfirmDialog

	// banner is the persistent refresh-failure line. It survives
	// until a refresh succeeds; the board underneath keeps showing
	// the last good snapshot.
	banner string

	// notice is a transient toast, cleared after noticeFadeDelay.
	notice string

	// fatal ends the session (auth expiry). Set just before quitting
	// so the final render explains why.
	fatal string
}

// NewModel creates a board model. The returned model issues its
// initial fetches from Init.
func NewModel(config Config) (Model, error) {
	if config.Backend == nil {
		return Model{}, errors.New("boardui: Backend is required")
	}
	if config.Session == nil {
		return Model{}, errors.New("boardui: Session is required")
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	dueSoonDays := config.DueSoonDays
	if dueSoonDays == 0 {
		dueSoonDays = 7
	}

	backend := config.Backend
	sess := config.Session
	projectID := config.ProjectID

	// The fetch closure captures only stable references, never the
	// model itself: bubbletea copies the model on every update, so a
	// closure over the model would see a stale copy.
	fetch := func(ctx context.Context) ([]schema.Task, error) {
		if projectID != 0 {
			grouped, err := backend.ProjectTasks(ctx, projectID, apiclient.ProjectTaskOptions{})
			if err != nil {
				return nil, err
			}
			return grouped.Flatten(), nil
		}
		viewer, err := sess.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		tasks, err := backend.ListTasks(ctx)
		if err != nil {
			return nil, err
		}
		return board.FilterForUser(tasks, viewer), nil
	}

	model := Model{
		backend:     backend,
		session:     sess,
		clock:       clk,
		log:         log,
		theme:       DefaultTheme,
		keys:        DefaultKeyMap,
		projectID:   projectID,
		dueSoonDays: dueSoonDays,
		hideDone:    config.HideDone,
		store:       board.NewStore(fetch, log),
		// Profile plus the first board refresh, plus the project
		// fetch on project boards; the first render waits for all.
		pendingLoads: 2,
	}
	if projectID != 0 {
		model.pendingLoads++
	}
	model.drag = dragdrop.NewController(clk, log)
	return model, nil
}

// Init implements tea.Model. Issues the initial fetches concurrently;
// the first board render waits for all of them.
func (model Model) Init() tea.Cmd {
	commands := []tea.Cmd{model.loadProfileCmd(), model.refreshCmd()}
	if model.projectID != 0 {
		commands = append(commands, model.loadProjectCmd())
	}
	return tea.Batch(commands...)
}

func (model Model) loadProfileCmd() tea.Cmd {
	sess := model.session
	return func() tea.Msg {
		user, err := sess.CurrentUser(context.Background())
		return profileLoadedMsg{user: user, err: err}
	}
}

func (model Model) loadProjectCmd() tea.Cmd {
	backend, projectID := model.backend, model.projectID
	return func() tea.Msg {
		project, err := backend.GetProject(context.Background(), projectID)
		return projectLoadedMsg{project: project, err: err}
	}
}

func (model Model) refreshCmd() tea.Cmd {
	store := model.store
	return func() tea.Msg {
		return boardRefreshedMsg{err: store.Refresh(context.Background())}
	}
}

// mutationCmd runs an API mutation off the UI loop and reports back.
func mutationCmd(notice string, run func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{notice: notice, err: run(context.Background())}
	}
}

func noticeFadeCmd() tea.Cmd {
	return tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// loading reports whether the initial joint fetch is still pending.
func (model Model) loading() bool {
	if model.pendingLoads > 0 {
		return true
	}
	_, loaded := model.store.Snapshot()
	return !loaded && model.store.Err() == nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case tea.KeyMsg:
		return model.handleKey(message)

	case profileLoadedMsg:
		model.pendingLoads--
		if message.err != nil {
			model.banner = "Couldn't load your profile: " + apiclient.UserMessage(message.err)
			return model, nil
		}
		model.viewer = message.user
		model.recomputeRole()

	case projectLoadedMsg:
		model.pendingLoads--
		if message.err != nil {
			model.banner = "Couldn't load the project: " + apiclient.UserMessage(message.err)
			return model, nil
		}
		model.project = message.project
		model.recomputeRole()

	case boardRefreshedMsg:
		if model.pendingLoads > 0 {
			model.pendingLoads--
		}
		if message.err != nil {
			model.banner = "Couldn't refresh the board: " + apiclient.UserMessage(message.err)
		} else {
			model.banner = ""
		}
		model.clampCursor()

	case mutationDoneMsg:
		if message.err != nil {
			model.notice = apiclient.UserMessage(message.err)
			return model, noticeFadeCmd()
		}
		model.notice = message.notice
		return model, tea.Batch(model.refreshCmd(), noticeFadeCmd())

	case dropDoneMsg:
		model.drag.Finish(message.err)
		if message.err != nil {
			model.notice = apiclient.UserMessage(message.err)
			return model, noticeFadeCmd()
		}
		model.notice = "Task moved."
		return model, tea.Batch(model.refreshCmd(), noticeFadeCmd())

	case noticeFadeMsg:
		model.notice = ""

	case AuthExpiredMsg:
		model.fatal = "Session expired. Run \"taskboard login\" to sign in again."
		return model, tea.Quit
	}
	return model, nil
}

// recomputeRole folds the viewer and project into the effective role.
// On the personal dashboard every card is the viewer's own, so the
// member floor is enough.
func (model *Model) recomputeRole() {
	if model.projectID == 0 {
		model.role = authorization.RoleMember
		return
	}
	model.role = authorization.EffectiveRole(model.viewer, model.project)
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch model.focus {
	case FocusForm:
		return model.handleFormKey(message)
	case FocusConfirm:
		done, cmd := model.confirm.Update(message)
		if done {
			model.confirm = nil
			model.focus = FocusBoard
		}
		return model, cmd
	}

	if model.drag.State() != dragdrop.StateIdle {
		return model.handleMoveModeKey(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Left):
		model.moveColumn(-1)
	case key.Matches(message, model.keys.Right):
		model.moveColumn(1)
	case key.Matches(message, model.keys.Up):
		model.moveRow(-1)
	case key.Matches(message, model.keys.Down):
		model.moveRow(1)
	case key.Matches(message, model.keys.Move):
		return model.beginMove()
	case key.Matches(message, model.keys.New):
		return model.openCreateForm()
	case key.Matches(message, model.keys.Edit):
		return model.openEditForm()
	case key.Matches(message, model.keys.Delete):
		return model.openDeleteConfirm()
	case key.Matches(message, model.keys.ToggleComplete):
		return model.toggleComplete()
	case key.Matches(message, model.keys.Refresh):
		return model, model.refreshCmd()
	}
	return model, nil
}

// handleMoveModeKey drives the drag controller with the keyboard:
// left/right retarget the highlighted column, enter drops, escape
// puts the card back.
func (model Model) handleMoveModeKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	statuses := model.visibleStatuses()
	switch {
	case key.Matches(message, model.keys.Left):
		if index := model.targetIndex(statuses); index > 0 {
			model.drag.HoverEnter(statuses[index-1])
		}
	case key.Matches(message, model.keys.Right):
		if index := model.targetIndex(statuses); index >= 0 && index < len(statuses)-1 {
			model.drag.HoverEnter(statuses[index+1])
		}
	case key.Matches(message, model.keys.Drop):
		return model.dropCard()
	case key.Matches(message, model.keys.Cancel), key.Matches(message, model.keys.Move):
		model.drag.Cancel()
	case key.Matches(message, model.keys.Quit):
		model.drag.Cancel()
	}
	return model, nil
}

// targetIndex locates the highlighted column in the visible status
// list.
func (model Model) targetIndex(statuses []schema.Status) int {
	target, ok := model.drag.Target()
	if !ok {
		return -1
	}
	for i, status := range statuses {
		if status == target {
			return i
		}
	}
	return -1
}

// beginMove picks up the selected card. The pick-up starts hovering
// over its own column so the highlight is visible immediately.
func (model Model) beginMove() (tea.Model, tea.Cmd) {
	task, ok := model.selectedTask()
	if !ok {
		return model, nil
	}
	if !model.drag.Begin(model.viewer, model.role, task) {
		model.notice = "You don't have permission to move this task."
		return model, noticeFadeCmd()
	}
	model.drag.HoverEnter(task.NormalizedStatus())
	return model, nil
}

// dropCard resolves the move locally, then runs the status update in
// a command so the event loop never waits on the network. Dropping on
// the source column is a no-op; a past-due completion is rejected
// before any request.
func (model Model) dropCard() (tea.Model, tea.Cmd) {
	commit, err := model.drag.Release()
	switch {
	case errors.Is(err, dragdrop.ErrPastDue):
		model.notice = dragdrop.PastDueMessage
		return model, noticeFadeCmd()
	case err != nil:
		model.notice = apiclient.UserMessage(err)
		return model, noticeFadeCmd()
	case commit == nil:
		return model, nil
	}

	backend := model.backend
	taskID := commit.Task.ID
	target := commit.Target
	return model, func() tea.Msg {
		_, err := backend.UpdateTask(context.Background(), taskID, schema.StatusChange{Status: target})
		return dropDoneMsg{err: err}
	}
}

func (model Model) openCreateForm() (tea.Model, tea.Cmd) {
	if model.projectID != 0 && model.project.Archived {
		model.notice = "This project is archived. Restore it to add tasks."
		return model, noticeFadeCmd()
	}
	model.form = newCreateForm(model.projectID == 0)
	model.focus = FocusForm
	return model, nil
}

func (model Model) openEditForm() (tea.Model, tea.Cmd) {
	task, ok := model.selectedTask()
	if !ok {
		return model, nil
	}
	if !authorization.CanEditTask(model.viewer, model.role, task) {
		model.notice = "You don't have permission to edit this task."
		return model, noticeFadeCmd()
	}
	model.form = newEditForm(task)
	model.focus = FocusForm
	return model, nil
}

func (model Model) openDeleteConfirm() (tea.Model, tea.Cmd) {
	task, ok := model.selectedTask()
	if !ok {
		return model, nil
	}
	if !authorization.CanDeleteTask(model.role) {
		model.notice = "You don't have permission to delete tasks."
		return model, noticeFadeCmd()
	}
	backend := model.backend
	taskID := task.ID
	model.confirm = newConfirmDialog(
		fmt.Sprintf("Delete %q?", task.Title),
		func() tea.Cmd {
			return mutationCmd("Task deleted.", func(ctx context.Context) error {
				return backend.DeleteTask(ctx, taskID)
			})
		},
	)
	model.focus = FocusConfirm
	return model, nil
}

// toggleComplete flips the completion checkbox on the selected card.
// Completing moves a personal task to done in the same write; the
// past-due guard applies exactly as it does to a drag.
func (model Model) toggleComplete() (tea.Model, tea.Cmd) {
	task, ok := model.selectedTask()
	if !ok {
		return model, nil
	}
	if !authorization.CanUpdateStatus(model.viewer, model.role, task) {
		model.notice = "You don't have permission to update this task."
		return model, noticeFadeCmd()
	}
	completing := !task.Completed
	if completing && task.DueDate != nil && task.DueDate.Before(model.clock.Now()) {
		model.notice = dragdrop.PastDueMessage
		return model, noticeFadeCmd()
	}

	backend := model.backend
	taskID := task.ID
	payload := schema.CompleteTask(task, completing)
	notice := "Task completed."
	if !completing {
		notice = "Task reopened."
	}
	return model, mutationCmd(notice, func(ctx context.Context) error {
		_, err := backend.UpdateTask(ctx, taskID, payload)
		return err
	})
}

func (model Model) handleFormKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, cmd := model.form.Update(message)
	switch action {
	case formCancel:
		model.form = nil
		model.focus = FocusBoard
		return model, nil
	case formSubmit:
		return model.submitForm()
	}
	return model, cmd
}

// submitForm builds the request from the validated form and sends it.
// The past-due guard applies to a personal edit that sets the status
// to done.
func (model Model) submitForm() (tea.Model, tea.Cmd) {
	form := model.form
	backend := model.backend
	projectID := model.projectID

	if form.editing && form.personal {
		payload := form.personalEditPayload()
		if payload.Status == schema.StatusDone && payload.DueDate != nil && payload.DueDate.Before(model.clock.Now()) {
			form.errorText = dragdrop.PastDueMessage
			return model, nil
		}
	}

	model.form = nil
	model.focus = FocusBoard

	var run func(ctx context.Context) error
	notice := "Task updated."
	assignee := form.value("assignee")
	switch {
	case !form.editing && projectID != 0:
		notice = "Task created."
		payload := form.createPayload()
		run = func(ctx context.Context) error {
			id, err := resolveAssignee(ctx, backend, assignee)
			if err != nil {
				return err
			}
			payload.AssigneeID = id
			_, err = backend.CreateProjectTask(ctx, projectID, payload)
			return err
		}
	case !form.editing:
		notice = "Task created."
		payload := form.createPayload()
		run = func(ctx context.Context) error {
			_, err := backend.CreateTask(ctx, payload)
			return err
		}
	case form.personal:
		payload := form.personalEditPayload()
		taskID := form.taskID
		run = func(ctx context.Context) error {
			_, err := backend.UpdateTask(ctx, taskID, payload)
			return err
		}
	default:
		payload := form.projectEditPayload()
		taskID := form.taskID
		run = func(ctx context.Context) error {
			id, err := resolveAssignee(ctx, backend, assignee)
			if err != nil {
				return err
			}
			payload.AssigneeID = id
			_, err = backend.UpdateTask(ctx, taskID, payload)
			return err
		}
	}
	return model, mutationCmd(notice, run)
}

// resolveAssignee turns the assignee field's username into a user ID.
// A blank field means unassigned, matching the empty option in a
// member selector. An exact username match wins; otherwise a single
// search hit is accepted.
func resolveAssignee(ctx context.Context, backend Backend, username string) (*int64, error) {
	if username == "" {
		return nil, nil
	}
	users, err := backend.SearchUsers(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if strings.EqualFold(user.Username, username) {
			return &user.ID, nil
		}
	}
	if len(users) == 1 {
		return &users[0].ID, nil
	}
	return nil, fmt.Errorf("no user named %q", username)
}

// visibleStatuses returns the column statuses in display order.
func (model Model) visibleStatuses() []schema.Status {
	statuses := schema.Statuses()
	if model.hideDone && model.projectID == 0 {
		return statuses[:2]
	}
	return statuses
}

// columnTasks returns the tasks in a visible column.
func (model Model) columnTasks(column int) []schema.Task {
	grouped, _ := model.store.Snapshot()
	statuses := model.visibleStatuses()
	if column < 0 || column >= len(statuses) {
		return nil
	}
	switch statuses[column] {
	case schema.StatusInProgress:
		return grouped.InProgress
	case schema.StatusDone:
		return grouped.Done
	default:
		return grouped.ToDo
	}
}

// selectedTask returns the task under the cursor.
func (model Model) selectedTask() (schema.Task, bool) {
	tasks := model.columnTasks(model.column)
	if model.row < 0 || model.row >= len(tasks) {
		return schema.Task{}, false
	}
	return tasks[model.row], true
}

func (model *Model) moveColumn(delta int) {
	columns := len(model.visibleStatuses())
	model.column = clamp(model.column+delta, 0, columns-1)
	model.clampCursor()
}

func (model *Model) moveRow(delta int) {
	model.row += delta
	model.clampCursor()
}

// clampCursor keeps the cursor on a real card after any move or
// refresh that changed the column contents.
func (model *Model) clampCursor() {
	columns := len(model.visibleStatuses())
	model.column = clamp(model.column, 0, columns-1)
	tasks := model.columnTasks(model.column)
	if len(tasks) == 0 {
		model.row = 0
		return
	}
	model.row = clamp(model.row, 0, len(tasks)-1)
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
