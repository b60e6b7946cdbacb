package calendar

import "time"

// Window is an inclusive time range. Selecting a heatmap bucket yields one,
// and the aggregation and search functions accept one as a filter.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether Start <= t <= End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayWindow covers the whole local day of t.
func (c Calendar) DayWindow(t time.Time) Window {
	return Window{Start: c.Day(t), End: c.EndOfDay(t)}
}
