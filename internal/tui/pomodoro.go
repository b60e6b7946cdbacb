package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/focus"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/state"
	"github.com/sadopc/studypad/internal/stats"
	"github.com/sadopc/studypad/internal/store"
)

type pomodoroModel struct {
	ws     *workspace
	width  int
	height int

	timer     focus.Timer
	gen       int // bumped whenever a pending tick must be ignored
	tagCursor int

	formActive  bool
	form        *huh.Form
	formMinutes *string
}

func newPomodoroModel(ws *workspace) pomodoroModel {
	minutes := ws.store.GetSettingInt(store.SettingFocusDuration, focus.DefaultMinutes)
	t, err := focus.New(minutes)
	if err != nil {
		logger.Warn("ignoring stored focus duration", "minutes", minutes, "err", err)
		t, _ = focus.New(focus.DefaultMinutes)
	}
	m := ""
	return pomodoroModel{ws: ws, timer: t, formMinutes: &m}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (p pomodoroModel) active() bool { return p.timer.Phase() != focus.PhaseIdle }

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != p.gen || !p.timer.Running() {
			return p, nil
		}
		next, ev := p.timer.Tick()
		p.timer = next
		if ev != nil {
			p.gen++
			return p, p.record(*ev)
		}
		return p, tickCmd(p.gen)

	case dataChangedMsg:
		p.timer = p.timer.DropTags(p.ws.tagExists)
		p.tagCursor = clamp(p.tagCursor, 0, len(p.ws.data.Tags)-1)
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Start):
			wasRunning := p.timer.Running()
			if key.Matches(msg, keys.Start) {
				p.timer = p.timer.Start(p.ws.cal.Now())
			} else {
				p.timer = p.timer.Toggle(p.ws.cal.Now())
			}
			switch {
			case !wasRunning && p.timer.Running():
				p.gen++
				return p, tickCmd(p.gen)
			case wasRunning && !p.timer.Running():
				p.gen++
			}
		case key.Matches(msg, keys.Stop):
			return p.stop()
		case key.Matches(msg, keys.Preset):
			return p.setDuration(nextPreset(p.timer.Minutes()))
		case key.Matches(msg, keys.Duration):
			if p.active() {
				return p, statusCmd("Stop the session before changing its length")
			}
			return p.showDurationForm()
		case key.Matches(msg, keys.Left):
			if p.tagCursor > 0 {
				p.tagCursor--
			}
		case key.Matches(msg, keys.Right):
			if p.tagCursor < len(p.ws.data.Tags)-1 {
				p.tagCursor++
			}
		case key.Matches(msg, keys.Enter):
			if p.tagCursor < len(p.ws.data.Tags) {
				p.timer = p.timer.ToggleTag(p.ws.data.Tags[p.tagCursor].ID)
			}
		}
	}
	return p, nil
}

func (p pomodoroModel) stop() (pomodoroModel, tea.Cmd) {
	if !p.active() {
		return p, nil
	}
	next, ev := p.timer.Stop()
	p.timer = next
	p.gen++
	if ev == nil {
		return p, statusCmd("Session under a minute discarded")
	}
	return p, p.record(*ev)
}

// record persists the session a finished or stopped timer produced.
func (p pomodoroModel) record(ev focus.Event) tea.Cmd {
	if err := p.ws.apply(state.AddPomodoro{Record: ev.Record}); err != nil {
		return errCmd("Record session", err)
	}
	logger.Info("focus session recorded",
		"minutes", ev.Record.Duration,
		"completed", ev.Kind == focus.Completed,
		"tags", len(ev.Record.TagIDs))
	text := fmt.Sprintf("Recorded %s of focus", formatMinutes(ev.Record.Duration))
	if ev.Kind == focus.Completed {
		text = fmt.Sprintf("Focus session complete: %s \a", formatMinutes(ev.Record.Duration))
	}
	return tea.Batch(dataChanged, statusCmd(text))
}

func nextPreset(current int) int {
	for _, m := range focus.Presets {
		if m > current {
			return m
		}
	}
	return focus.Presets[0]
}

func (p pomodoroModel) setDuration(minutes int) (pomodoroModel, tea.Cmd) {
	if p.active() {
		return p, statusCmd("Stop the session before changing its length")
	}
	t, err := p.timer.ChangeDuration(minutes)
	if err != nil {
		return p, errCmd("Duration", err)
	}
	p.timer = t
	if err := p.ws.store.SetSetting(store.SettingFocusDuration, strconv.Itoa(minutes)); err != nil {
		logger.Error("save focus duration failed", "err", err)
		return p, errCmd("Save duration", err)
	}
	return p, nil
}

func (p pomodoroModel) showDurationForm() (pomodoroModel, tea.Cmd) {
	*p.formMinutes = strconv.Itoa(p.timer.Minutes())
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Session length (min)").Value(p.formMinutes).Validate(func(s string) error {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n < 1 {
					return focus.ErrInvalidDuration
				}
				return nil
			}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p pomodoroModel) updateForm(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		n, _ := strconv.Atoi(strings.TrimSpace(*p.formMinutes))
		return p.setDuration(n)
	}

	return p, cmd
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	if p.formActive && p.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Focus Duration"), "", p.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Focus")

	var timeDisplay, phaseLabel string
	switch p.timer.Phase() {
	case focus.PhaseRunning:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(formatDuration(p.timer.Remaining()))
		phaseLabel = successStyle.Bold(true).Render(p.timer.Phase().String())
	case focus.PhasePaused:
		timeDisplay = timerPausedStyle.Width(w - 6).Render(formatDuration(p.timer.Remaining()))
		phaseLabel = warningStyle.Bold(true).Render(p.timer.Phase().String())
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(formatDuration(p.timer.Remaining()))
		phaseLabel = mutedStyle.Render("Ready to start")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		timeDisplay,
		phaseLabel,
		"",
		p.renderProgress(min(w-10, 50)),
		"",
		p.renderPresets(),
		"",
		p.renderTags(),
		"",
		p.renderToday(),
	)

	var controls string
	if p.active() {
		controls = mutedStyle.Render("space: pause/resume  x: stop  ←/→ enter: tags")
	} else {
		controls = mutedStyle.Render("space: start  p: next preset  c: custom length  ←/→ enter: tags")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

func (p pomodoroModel) renderProgress(width int) string {
	width = max(width, 10)
	filled := int(p.timer.Progress() * float64(width))
	bar := successStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
	return bar + mutedStyle.Render(fmt.Sprintf(" %3.0f%%", p.timer.Progress()*100))
}

func (p pomodoroModel) renderPresets() string {
	var parts []string
	for _, m := range focus.Presets {
		label := fmt.Sprintf(" %d ", m)
		if m == p.timer.Minutes() {
			parts = append(parts, selectedItemStyle.Reverse(true).Render(label))
		} else {
			parts = append(parts, mutedStyle.Render(label))
		}
	}
	if !slices.Contains(focus.Presets, p.timer.Minutes()) {
		parts = append(parts, selectedItemStyle.Reverse(true).Render(fmt.Sprintf(" %d ", p.timer.Minutes())))
	}
	return strings.Join(parts, " ") + mutedStyle.Render(" min")
}

func (p pomodoroModel) renderTags() string {
	tags := p.ws.data.Tags
	if len(tags) == 0 {
		return mutedStyle.Render("No tags to attach")
	}
	var parts []string
	for i, tag := range tags {
		mark := "○"
		if p.timer.HasTag(tag.ID) {
			mark = "●"
		}
		label := lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(mark) + " " + tag.Name
		if i == p.tagCursor {
			label = selectedItemStyle.Render("[") + label + selectedItemStyle.Render("]")
		} else {
			label = " " + label + " "
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func (p pomodoroModel) renderToday() string {
	cal := p.ws.cal
	today := stats.PomodorosIn(p.ws.data.PomodoroRecords, cal.DayWindow(cal.Now()))
	return mutedStyle.Render(fmt.Sprintf("Today: %d sessions · %s", len(today), formatMinutes(stats.FocusTotal(today))))
}
