package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/recurrence"
)

// Slate and blue, the same family as the tag palette.
var (
	colorPrimary   = lipgloss.Color("#3b82f6") // blue-500
	colorMuted     = lipgloss.Color("#64748b") // slate-500
	colorSuccess   = lipgloss.Color("#10b981")
	colorWarning   = lipgloss.Color("#f59e0b")
	colorError     = lipgloss.Color("#ef4444")
	colorFg        = lipgloss.Color("#e2e8f0") // slate-200
	colorSubtle    = lipgloss.Color("#334155") // slate-700
	colorHighlight = lipgloss.Color("#93c5fd")
)

// Heat tiers 0-4, shared by the post heatmap and the month grid shades.
var heatColors = [...]lipgloss.Color{"#1e293b", "#1e3a8a", "#1d4ed8", "#3b82f6", "#93c5fd"}

var (
	base = lipgloss.NewStyle()

	titleStyle        = base.Bold(true).Foreground(colorFg)
	subtitleStyle     = base.Italic(true).Foreground(colorMuted)
	mutedStyle        = base.Foreground(colorMuted)
	highlightStyle    = base.Foreground(colorHighlight)
	successStyle      = base.Foreground(colorSuccess)
	warningStyle      = base.Foreground(colorWarning)
	errorStyle        = base.Foreground(colorError)
	normalItemStyle   = base.Foreground(colorFg)
	selectedItemStyle = base.Bold(true).Foreground(colorPrimary)
	doneItemStyle     = mutedStyle.Strikethrough(true)

	headerStyle = base.Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)

	activeTabStyle = selectedItemStyle.
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)
	inactiveTabStyle = mutedStyle.Padding(0, 2)

	panelStyle       = base.Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(colorSubtle)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)
	cardStyle        = panelStyle.Padding(0, 2).Align(lipgloss.Center)

	// The big countdown, colored by phase.
	timerStyle        = titleStyle.Foreground(colorPrimary).Align(lipgloss.Center)
	timerRunningStyle = timerStyle.Foreground(colorSuccess)
	timerPausedStyle  = timerStyle.Foreground(colorWarning)

	cellStyle         = base.Width(4).Align(lipgloss.Center)
	selectedCellStyle = cellStyle.Reverse(true).Bold(true)
)

func dot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

func priorityStyle(p model.Priority) lipgloss.Style {
	switch p {
	case model.PriorityUrgent:
		return errorStyle
	case model.PriorityImportant:
		return warningStyle
	}
	return normalItemStyle
}

// markerStyle colors a month-grid day by its once todos.
func markerStyle(m recurrence.Marker) lipgloss.Style {
	switch m.Kind {
	case recurrence.MarkerDone:
		return cellStyle.Foreground(colorSuccess)
	case recurrence.MarkerUrgent:
		return cellStyle.Foreground(colorError).Bold(true)
	case recurrence.MarkerImportant:
		return cellStyle.Foreground(colorWarning).Bold(true)
	case recurrence.MarkerNormal:
		return cellStyle.Foreground(heatColors[m.Shade()])
	}
	return cellStyle.Foreground(colorFg)
}
