// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package boardui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Crabbercat/PBL4-Task-manager/lib/board"
	"github.com/Crabbercat/PBL4-Task-manager/lib/boardview"
	"github.com/Crabbercat/PBL4-Task-manager/lib/dragdrop"
	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

const (
	minColumnWidth = 24
	columnGap      = 2
)

// View implements tea.Model.
func (model Model) View() string {
	if model.fatal != "" {
		return model.fatal + "\n"
	}
	if !model.ready {
		return ""
	}
	if model.loading() {
		return lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Padding(1, 2).
			Render("Loading the board…")
	}

	if model.focus == FocusForm && model.form != nil {
		return model.overlayModal(model.form.View(model.theme, model.width))
	}
	if model.focus == FocusConfirm && model.confirm != nil {
		return model.overlayModal(model.confirm.View(model.theme, model.width))
	}

	var sections []string
	sections = append(sections, model.renderHeader())
	if model.banner != "" {
		sections = append(sections, model.renderBanner())
	}
	sections = append(sections, model.renderColumns())
	sections = append(sections, model.renderFooter())
	return strings.Join(sections, "\n")
}

// overlayModal replaces the board with a centered modal. The board
// state stays underneath and comes back when the modal closes.
func (model Model) overlayModal(modal string) string {
	return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center, modal)
}

func (model Model) renderHeader() string {
	title := "My tasks"
	if model.projectID != 0 {
		title = model.project.Name
		if model.project.Archived {
			title += " (archived)"
		}
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)

	grouped, _ := model.store.Snapshot()
	stats := board.ComputeStats(grouped, model.clock.Now(), model.dueSoonDays)
	statsLine := fmt.Sprintf("%d tasks · %d in progress · %d done · %d due soon",
		stats.Total, stats.InProgress, stats.Done, stats.DueSoon)
	statsStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	left := titleStyle.Render(title)
	right := statsStyle.Render(statsLine)
	gap := model.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left + "\n" + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (model Model) renderBanner() string {
	return lipgloss.NewStyle().
		Foreground(model.theme.BannerForeground).
		Background(model.theme.BannerBackground).
		Width(model.width).
		Render(" " + model.banner)
}

func (model Model) renderColumns() string {
	statuses := model.visibleStatuses()
	grouped, _ := model.store.Snapshot()
	columns := boardview.Compose(grouped, model.viewer, model.role, model.clock.Now())

	width := model.columnWidth(len(statuses))
	target, hasTarget := model.drag.Target()

	var rendered []string
	for index, status := range statuses {
		column := columnFor(columns, status)
		highlight := hasTarget && target == status
		rendered = append(rendered, model.renderColumn(column, width, index == model.column, highlight))
		if index < len(statuses)-1 {
			rendered = append(rendered, strings.Repeat(" ", columnGap))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func columnFor(columns []boardview.Column, status schema.Status) boardview.Column {
	for _, column := range columns {
		if column.Status == status {
			return column
		}
	}
	return boardview.Column{Status: status, Title: status.Label()}
}

func (model Model) columnWidth(count int) int {
	width := (model.width - columnGap*(count-1)) / count
	if width < minColumnWidth {
		width = minColumnWidth
	}
	return width
}

func (model Model) renderColumn(column boardview.Column, width int, selected, dropTarget bool) string {
	headingColor := model.theme.StatusColor(column.Status)
	borderColor := model.theme.BorderColor
	if dropTarget {
		borderColor = model.theme.MoveAccent
	}

	heading := lipgloss.NewStyle().
		Foreground(headingColor).
		Bold(selected).
		Render(fmt.Sprintf("%s (%d)", column.Title, len(column.Cards)))

	lines := []string{heading, ""}
	if len(column.Cards) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("no tasks"))
	}
	for row, card := range column.Cards {
		cursor := selected && row == model.row && model.focus == FocusBoard
		lines = append(lines, model.renderCard(card, width-4, cursor))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width - 2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (model Model) renderCard(card boardview.Card, width int, cursor bool) string {
	titleStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	metaStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	if cursor {
		titleStyle = titleStyle.Background(model.theme.SelectedBackground).Foreground(model.theme.SelectedForeground)
		metaStyle = metaStyle.Background(model.theme.SelectedBackground)
	}
	if active, ok := model.drag.Active(); ok && active.ID == card.Task.ID {
		titleStyle = titleStyle.Foreground(model.theme.MoveAccent).Bold(true)
	}

	marker := " "
	if card.Task.Completed {
		marker = "✓"
	}
	title := ansi.Truncate(card.Task.Title, width-2, "…")
	lines := []string{titleStyle.Render(marker + " " + title)}

	if card.Summary != "" {
		summary := card.Summary
		if card.Overdue {
			summary = lipgloss.NewStyle().Foreground(model.theme.Overdue).Render(ansi.Truncate(summary, width, "…"))
		} else {
			summary = metaStyle.Render(ansi.Truncate(summary, width, "…"))
		}
		lines = append(lines, "  "+summary)
	}
	if len(card.Tags) > 0 {
		tags := metaStyle.Render(ansi.Truncate("#"+strings.Join(card.Tags, " #"), width, "…"))
		lines = append(lines, "  "+tags)
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (model Model) renderFooter() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	if model.notice != "" {
		return lipgloss.NewStyle().Foreground(model.theme.MoveAccent).Render(model.notice)
	}
	if model.drag.State() != dragdrop.StateIdle {
		return style.Render("h/l pick a column · enter drop · esc cancel")
	}
	return style.Render("hjkl move · m pick up · n new · e edit · d delete · space toggle done · r refresh · q quit")
}
