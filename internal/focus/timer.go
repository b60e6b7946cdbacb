// Package focus is the countdown state machine behind the focus view. The
// timer does not own a clock: the caller delivers one Tick per second while
// it is running.
package focus

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/sadopc/studypad/internal/model"
)

// DefaultMinutes is the session length before one is chosen.
const DefaultMinutes = 25

// MinRecordSeconds is the shortest stopped session that still gets recorded.
const MinRecordSeconds = 60

// Presets are the session lengths offered by the focus view, in minutes.
var Presets = []int{25, 35, 45, 60, 100, 150}

var ErrInvalidDuration = errors.New("focus duration must be at least one minute")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
)

var phaseNames = map[Phase]string{
	PhaseIdle:    "IDLE",
	PhaseRunning: "FOCUS",
	PhasePaused:  "PAUSED",
}

func (p Phase) String() string { return phaseNames[p] }

type EventKind int

const (
	// Completed means the countdown reached zero.
	Completed EventKind = iota
	// Stopped means the session was cut short but ran long enough to keep.
	Stopped
)

// Event carries the record a finished session produced.
type Event struct {
	Kind   EventKind
	Record model.PomodoroRecord
}

// Timer is a value; every transition returns the next timer.
type Timer struct {
	minutes   int
	remaining int // seconds
	phase     Phase
	startedAt time.Time
	tags      []string
}

// New returns an idle timer of the given length.
func New(minutes int) (Timer, error) {
	if minutes < 1 {
		return Timer{}, fmt.Errorf("%w: got %d", ErrInvalidDuration, minutes)
	}
	return Timer{minutes: minutes, remaining: minutes * 60}, nil
}

func (t Timer) Minutes() int          { return t.minutes }
func (t Timer) Phase() Phase          { return t.phase }
func (t Timer) Running() bool         { return t.phase == PhaseRunning }
func (t Timer) StartedAt() time.Time  { return t.startedAt }
func (t Timer) Tags() []string        { return slices.Clone(t.tags) }
func (t Timer) HasTag(id string) bool { return slices.Contains(t.tags, id) }

func (t Timer) Remaining() time.Duration {
	return time.Duration(t.remaining) * time.Second
}

// Elapsed is the time counted down so far in the current session.
func (t Timer) Elapsed() time.Duration {
	return time.Duration(t.minutes*60-t.remaining) * time.Second
}

// Progress is the elapsed fraction, from 0 to 1.
func (t Timer) Progress() float64 {
	total := t.minutes * 60
	if total == 0 {
		return 0
	}
	return float64(total-t.remaining) / float64(total)
}

// Start begins or resumes the countdown. Starting a running timer does
// nothing, so there is never more than one live session.
func (t Timer) Start(now time.Time) Timer {
	switch t.phase {
	case PhaseRunning:
		return t
	case PhaseIdle:
		t.startedAt = now
		t.remaining = t.minutes * 60
	}
	t.phase = PhaseRunning
	return t
}

func (t Timer) Pause() Timer {
	if t.phase == PhaseRunning {
		t.phase = PhasePaused
	}
	return t
}

// Toggle starts a stopped or paused timer and pauses a running one.
func (t Timer) Toggle(now time.Time) Timer {
	if t.Running() {
		return t.Pause()
	}
	return t.Start(now)
}

// Tick counts down one second. When the countdown reaches zero the session
// completes with its full length and the timer resets to idle.
func (t Timer) Tick() (Timer, *Event) {
	if t.phase != PhaseRunning {
		return t, nil
	}
	t.remaining--
	if t.remaining > 0 {
		return t, nil
	}
	ev := &Event{Kind: Completed, Record: model.NewPomodoroRecord(t.startedAt, t.minutes, t.tags)}
	return t.reset(), ev
}

// Stop ends the session. Less than a minute of focus is discarded; otherwise
// the whole minutes counted so far are recorded.
func (t Timer) Stop() (Timer, *Event) {
	if t.phase == PhaseIdle {
		return t, nil
	}
	elapsed := t.minutes*60 - t.remaining
	var ev *Event
	if elapsed >= MinRecordSeconds {
		ev = &Event{Kind: Stopped, Record: model.NewPomodoroRecord(t.startedAt, elapsed/60, t.tags)}
	}
	return t.reset(), ev
}

// ChangeDuration sets a new session length. Any session in progress is
// abandoned without a record.
func (t Timer) ChangeDuration(minutes int) (Timer, error) {
	if minutes < 1 {
		return t, fmt.Errorf("%w: got %d", ErrInvalidDuration, minutes)
	}
	t.minutes = minutes
	return t.reset(), nil
}

// ToggleTag adds or removes a tag for the records this timer produces.
func (t Timer) ToggleTag(id string) Timer {
	if i := slices.Index(t.tags, id); i >= 0 {
		t.tags = slices.Delete(slices.Clone(t.tags), i, i+1)
		return t
	}
	t.tags = append(slices.Clip(t.tags), id)
	return t
}

// DropTags forgets selected tags that no longer exist.
func (t Timer) DropTags(exists func(id string) bool) Timer {
	t.tags = slices.DeleteFunc(slices.Clone(t.tags), func(id string) bool { return !exists(id) })
	return t
}

func (t Timer) reset() Timer {
	t.phase = PhaseIdle
	t.remaining = t.minutes * 60
	t.startedAt = time.Time{}
	return t
}
