// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// Theme defines the color palette for the board TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected card.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Priority colors (low, medium, high).
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color

	// Status accents for column headers.
	StatusToDo       lipgloss.Color
	StatusInProgress lipgloss.Color
	StatusDone       lipgloss.Color

	// Overdue due dates.
	Overdue lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Move mode: border accent for the highlighted target column and
	// the card being carried.
	MoveAccent lipgloss.Color

	// Error banner shown over stale data after a failed refresh.
	BannerForeground lipgloss.Color
	BannerBackground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	PriorityLow:    lipgloss.Color("245"), // gray
	PriorityMedium: lipgloss.Color("75"),  // blue
	PriorityHigh:   lipgloss.Color("208"), // orange

	StatusToDo:       lipgloss.Color("114"), // green
	StatusInProgress: lipgloss.Color("220"), // yellow/amber
	StatusDone:       lipgloss.Color("245"), // gray

	Overdue: lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	MoveAccent: lipgloss.Color("220"),

	BannerForeground: lipgloss.Color("255"),
	BannerBackground: lipgloss.Color("88"), // dark red
}

// PriorityColor returns the color for a task priority.
func (theme Theme) PriorityColor(priority schema.Priority) lipgloss.Color {
	switch schema.NormalizePriority(string(priority)) {
	case schema.PriorityLow:
		return theme.PriorityLow
	case schema.PriorityHigh:
		return theme.PriorityHigh
	default:
		return theme.PriorityMedium
	}
}

// StatusColor returns the header accent for a status column.
func (theme Theme) StatusColor(status schema.Status) lipgloss.Color {
	switch status {
	case schema.StatusInProgress:
		return theme.StatusInProgress
	case schema.StatusDone:
		return theme.StatusDone
	default:
		return theme.StatusToDo
	}
}
