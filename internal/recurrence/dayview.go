package recurrence

import (
	"sort"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

// ForDay returns the todos active on date, incomplete ones first and then by
// descending priority. Ties keep collection order.
func ForDay(cal calendar.Calendar, todos []model.Todo, date time.Time) []model.Todo {
	var out []model.Todo
	for _, t := range todos {
		if IsActiveOn(cal, t, date) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := IsCompletedOn(cal, out[i], date), IsCompletedOn(cal, out[j], date)
		if di != dj {
			return !di
		}
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})
	return out
}

// OfType filters todos down to a single type.
func OfType(todos []model.Todo, typ model.TodoType) []model.Todo {
	var out []model.Todo
	for _, t := range todos {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

// AllDone reports whether at least one todo of typ is active on date and all
// of those are completed.
func AllDone(cal calendar.Calendar, todos []model.Todo, typ model.TodoType, date time.Time) bool {
	active := 0
	for _, t := range todos {
		if t.Type != typ || !IsActiveOn(cal, t, date) {
			continue
		}
		active++
		if !IsCompletedOn(cal, t, date) {
			return false
		}
	}
	return active > 0
}

type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerDone
	MarkerUrgent
	MarkerImportant
	MarkerNormal
)

// Marker summarizes the one-off todos of a calendar day for the month grid.
type Marker struct {
	Kind  MarkerKind
	Count int // number of once todos on the day
}

// Shade grades a normal marker by how many todos the day has, 1 through 4.
func (m Marker) Shade() int {
	switch {
	case m.Count >= 4:
		return 4
	case m.Count <= 1:
		return 1
	}
	return m.Count
}

// DayMarker computes the month-grid marker for date from its once todos.
func DayMarker(cal calendar.Calendar, todos []model.Todo, date time.Time) Marker {
	var day []model.Todo
	for _, t := range todos {
		if t.Type == model.TodoOnce && IsActiveOn(cal, t, date) {
			day = append(day, t)
		}
	}
	if len(day) == 0 {
		return Marker{Kind: MarkerNone}
	}
	m := Marker{Count: len(day)}
	allDone := true
	urgent, important := false, false
	for _, t := range day {
		if !IsCompletedOn(cal, t, date) {
			allDone = false
		}
		switch t.Priority {
		case model.PriorityUrgent:
			urgent = true
		case model.PriorityImportant:
			important = true
		}
	}
	switch {
	case allDone:
		m.Kind = MarkerDone
	case urgent:
		m.Kind = MarkerUrgent
	case important:
		m.Kind = MarkerImportant
	default:
		m.Kind = MarkerNormal
	}
	return m
}
