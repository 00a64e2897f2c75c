// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmDialog is a modal yes/no prompt. While it is open all input
// routes here; declining resolves to a full no-op with no partial
// side effects.
type ConfirmDialog struct {
	prompt string

	// accept runs when the user confirms. It returns the command
	// that performs the action.
	accept func() tea.Cmd
}

// newConfirmDialog builds a dialog around a deferred action.
func newConfirmDialog(prompt string, accept func() tea.Cmd) *ConfirmDialog {
	return &ConfirmDialog{prompt: prompt, accept: accept}
}

// Update resolves the dialog. Returns done=true when the dialog
// closed, with cmd non-nil only on confirmation.
func (dialog *ConfirmDialog) Update(message tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch message.String() {
	case "y", "Y", "enter":
		return true, dialog.accept()
	case "n", "N", "esc", "q":
		return true, nil
	}
	return false, nil
}

// View renders the dialog box.
func (dialog *ConfirmDialog) View(theme Theme, width int) string {
	help := lipgloss.NewStyle().Foreground(theme.HelpText).Render("y confirm · n cancel")
	body := strings.Join([]string{dialog.prompt, "", help}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Overdue).
		Padding(0, 1).
		Width(min(width-4, 48)).
		Render(body)
}
