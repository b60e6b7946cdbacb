package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/export"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	ws     *workspace
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	todos    todosModel
	notes    notesModel
	pomodoro pomodoroModel
	reports  reportsModel
	tags     tagsModel

	help   help.Model
	status string
	failed bool
}

// NewApp loads the persisted snapshot and builds every view around it.
func NewApp(s *store.Store, cal calendar.Calendar) (App, error) {
	data, err := s.LoadSnapshot()
	if err != nil {
		return App{}, fmt.Errorf("load snapshot: %w", err)
	}
	ws := &workspace{store: s, cal: cal, data: data}

	h := help.New()
	h.ShowAll = false

	return App{
		ws:         ws,
		activeView: viewTodos,
		todos:      newTodosModel(ws),
		notes:      newNotesModel(ws),
		pomodoro:   newPomodoroModel(ws),
		reports:    newReportsModel(ws),
		tags:       newTagsModel(ws),
		help:       h,
	}, nil
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.todos.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.tags.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTodos
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewNotes
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewFocus
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewStats
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewTags
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case tickMsg:
		// Ticks belong to the focus timer whichever view is showing.
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, cmd

	case dataChangedMsg:
		var cmds [5]tea.Cmd
		a.todos, cmds[0] = a.todos.update(msg)
		a.notes, cmds[1] = a.notes.update(msg)
		a.pomodoro, cmds[2] = a.pomodoro.update(msg)
		a.reports, cmds[3] = a.reports.update(msg)
		a.tags, cmds[4] = a.tags.update(msg)
		return a, tea.Batch(cmds[:]...)

	case statusMsg:
		a.status = msg.text
		a.failed = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.failed = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTodos:
		a.todos, cmd = a.todos.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewFocus:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewStats:
		a.reports, cmd = a.reports.update(msg)
	case viewTags:
		a.tags, cmd = a.tags.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTodos:
		return a.todos.formActive
	case viewNotes:
		return a.notes.formActive || a.notes.reading != ""
	case viewFocus:
		return a.pomodoro.formActive
	case viewTags:
		return a.tags.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTodos:
		content = a.todos.view()
	case viewNotes:
		content = a.notes.view()
	case viewFocus:
		content = a.pomodoro.view()
	case viewStats:
		content = a.reports.view()
	case viewTags:
		content = a.tags.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render(a.ws.data.AppName)
	motto := subtitleStyle.Render(" " + truncate(a.ws.data.Motto, max(a.width-lipgloss.Width(tabRow)-lipgloss.Width(title)-8, 0)))
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(motto) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
		motto = ""
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, motto, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.failed {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Timer indicator in footer
	timerInfo := ""
	switch {
	case a.pomodoro.timer.Running():
		timerInfo = successStyle.Render(" ● " + formatDuration(a.pomodoro.timer.Remaining()))
	case a.pomodoro.active():
		timerInfo = warningStyle.Render(" ⏸ " + formatDuration(a.pomodoro.timer.Remaining()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"JSON (full backup)", "CSV (focus sessions)"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor, exportDir())
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// exportDir is where exports land: the home directory, or the working
// directory when there is none.
func exportDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func (a App) doExport(format int, dir string) tea.Cmd {
	data := a.ws.data
	now := a.ws.cal.Now()
	return func() tea.Msg {
		var path string
		var err error
		if format == 0 {
			path = filepath.Join(dir, export.FileName(now))
			err = export.ToJSON(data, path)
		} else {
			path = filepath.Join(dir, fmt.Sprintf("study_focus_%s.csv", now.Format("2006-01-02")))
			err = export.ToCSV(data.PomodoroRecords, data.Tags, a.ws.cal.Location(), path)
		}
		if err != nil {
			logger.Error("export failed", "path", path, "err", err)
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("exported snapshot", "path", path)
		return exportDoneMsg{path: path}
	}
}
