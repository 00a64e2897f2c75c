// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the board TUI.
type KeyMap struct {
	// Cursor movement across columns and cards. In move mode,
	// Left/Right retarget the pick-up instead of moving the cursor.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Move mode: pick up the selected card, drop it on the
	// highlighted column, or put it back.
	Move   key.Binding
	Drop   key.Binding
	Cancel key.Binding

	// Mutations.
	New            key.Binding
	Edit           key.Binding
	Delete         key.Binding
	ToggleComplete key.Binding

	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (h/j/k/l) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move card"),
	),
	Drop: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "drop"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new task"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	ToggleComplete: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("Space", "toggle done"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
