// Package calendar owns every calendar-day computation: truncation to local
// midnight, day-keys, Monday-anchored week-keys, and month grids. The location
// and the clock are injected so "today" can be pinned.
package calendar

import (
	"fmt"
	"time"
)

// DateFormat is the day-key layout (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// GridCells is the size of a month grid: six Monday-first weeks.
const GridCells = 42

type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// New returns a calendar in loc whose clock is now. A nil loc means
// time.Local and a nil now means time.Now.
func New(loc *time.Location, now func() time.Time) Calendar {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return Calendar{loc: loc, now: now}
}

// Local is the host calendar.
func Local() Calendar {
	return New(time.Local, time.Now)
}

// Fixed returns a calendar frozen at t, in t's location.
func Fixed(t time.Time) Calendar {
	return New(t.Location(), func() time.Time { return t })
}

// LoadLocation resolves a configured timezone name. Empty and "Local" mean the
// host timezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.Local
	}
	return c.loc
}

func (c Calendar) Now() time.Time {
	if c.now == nil {
		return time.Now().In(c.Location())
	}
	return c.now().In(c.Location())
}

// Today is local midnight of the current day.
func (c Calendar) Today() time.Time {
	return c.Day(c.Now())
}

// Day truncates t to local midnight.
func (c Calendar) Day(t time.Time) time.Time {
	t = t.In(c.Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location())
}

// EndOfDay is the last millisecond of t's local day.
func (c Calendar) EndOfDay(t time.Time) time.Time {
	d := c.Day(t)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), c.Location())
}

// AddDays moves a day by n calendar days, keeping midnight across DST changes.
func (c Calendar) AddDays(t time.Time, n int) time.Time {
	d := c.Day(t)
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, c.Location())
}

func (c Calendar) SameDay(a, b time.Time) bool {
	return c.Day(a).Equal(c.Day(b))
}

// DayKey formats t's local calendar day as YYYY-MM-DD.
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.Location()).Format(DateFormat)
}

// WeekStart is local midnight of the Monday of t's ISO week.
func (c Calendar) WeekStart(t time.Time) time.Time {
	d := c.Day(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0, Sunday = 6
	return c.AddDays(d, -offset)
}

// WeekKey is the day-key of the Monday of t's week.
func (c Calendar) WeekKey(t time.Time) string {
	return c.DayKey(c.WeekStart(t))
}

// ParseDayKey parses a YYYY-MM-DD key into local midnight.
func (c Calendar) ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, key, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day key %q: %w", key, err)
	}
	return t, nil
}

// MonthGrid lays out a month over six Monday-first weeks. Each cell holds the
// day of month, or 0 for padding before the 1st and after the last day.
func (c Calendar) MonthGrid(year int, month time.Month) [GridCells]int {
	var grid [GridCells]int
	first := time.Date(year, month, 1, 0, 0, 0, 0, c.Location())
	offset := (int(first.Weekday()) + 6) % 7
	days := DaysIn(year, month)
	for d := 1; d <= days; d++ {
		grid[offset+d-1] = d
	}
	return grid
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
