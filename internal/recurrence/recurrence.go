// Package recurrence resolves whether a todo applies to a calendar day and
// whether it is completed on that day, and computes completion toggles.
package recurrence

import (
	"slices"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

// IsActiveOn reports whether todo applies to date. Nothing is active before
// the calendar day it was created on.
func IsActiveOn(cal calendar.Calendar, todo model.Todo, date time.Time) bool {
	created := cal.Day(todo.Date)
	day := cal.Day(date)
	if day.Before(created) {
		return false
	}
	switch todo.Type {
	case model.TodoOnce:
		return day.Equal(created)
	case model.TodoDaily, model.TodoWeekly:
		// Weekly todos surface every day; they reset through their week-key.
		return true
	default:
		return false
	}
}

// CompletionKey returns the key under which a recurring todo records
// completion for date, or "" for once and target todos.
func CompletionKey(cal calendar.Calendar, todo model.Todo, date time.Time) string {
	switch todo.Type {
	case model.TodoDaily:
		return cal.DayKey(date)
	case model.TodoWeekly:
		return cal.WeekKey(date)
	}
	return ""
}

// IsCompletedOn reports whether todo counts as done on date.
func IsCompletedOn(cal calendar.Calendar, todo model.Todo, date time.Time) bool {
	if !todo.Recurring() {
		return todo.Completed
	}
	return slices.Contains(todo.CompletedDates, CompletionKey(cal, todo, date))
}

// ToggleCompletion returns a copy of todo with its completion on date
// flipped. The input todo is not modified. Removing the last date leaves an
// empty, non-nil set.
func ToggleCompletion(cal calendar.Calendar, todo model.Todo, date time.Time) model.Todo {
	if !todo.Recurring() {
		todo.Completed = !todo.Completed
		return todo
	}
	key := CompletionKey(cal, todo, date)
	if slices.Contains(todo.CompletedDates, key) {
		todo.CompletedDates = slices.DeleteFunc(slices.Clone(todo.CompletedDates), func(d string) bool { return d == key })
		return todo
	}
	dates := make([]string, 0, len(todo.CompletedDates)+1)
	dates = append(dates, todo.CompletedDates...)
	todo.CompletedDates = append(dates, key)
	return todo
}
