package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/state"
	"github.com/sadopc/studypad/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTodos viewState = iota
	viewNotes
	viewFocus
	viewStats
	viewTags
)

var viewNames = []string{"Todos", "Notes", "Focus", "Stats", "Tags"}

// workspace is shared by every view. It is held by pointer so that the value
// copies Bubble Tea makes of the models all see the latest snapshot.
type workspace struct {
	store *store.Store
	cal   calendar.Calendar
	data  model.AppData
}

// apply runs action through the reducer and persists the result. The
// in-memory snapshot only advances once the save succeeded.
func (w *workspace) apply(action state.Action) error {
	next, err := state.Apply(w.data, action, w.cal)
	if err != nil {
		logger.Warn("action rejected", "action", fmt.Sprintf("%T", action), "err", err)
		return err
	}
	if err := w.store.SaveSnapshot(next); err != nil {
		logger.Error("save snapshot failed", "action", fmt.Sprintf("%T", action), "err", err)
		return fmt.Errorf("save: %w", err)
	}
	w.data = next
	return nil
}

func (w *workspace) tagExists(id string) bool {
	return w.data.TagByID(id) != nil
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg drives the focus countdown. gen ties a tick to the run that
// scheduled it; ticks from an earlier run are dropped.
type tickMsg struct {
	gen int
	at  time.Time
}

type exportDoneMsg struct {
	path string
}

// dataChangedMsg is sent after a view mutated the snapshot so the others
// can drop state that refers to deleted entities.
type dataChangedMsg struct{}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errCmd(prefix string, err error) tea.Cmd {
	msg := statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	return func() tea.Msg { return msg }
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
