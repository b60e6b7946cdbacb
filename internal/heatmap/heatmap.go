// Package heatmap partitions the current year into buckets and weighs each
// bucket by the posts written inside it.
package heatmap

import (
	"fmt"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

type Mode string

const (
	ModeYear  Mode = "year"
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
)

// Modes lists the modes in the order the view cycles through them.
var Modes = []Mode{ModeYear, ModeMonth, ModeWeek}

const (
	yearBuckets = 53
	postWeight  = 1000
)

// Tier thresholds. Weight 0 is tier 0; anything at or above the last
// threshold is tier 4.
var tierThresholds = [...]int{500, 2000, 5000}

// Bucket is one cell of the heatmap. Start and End are inclusive.
type Bucket struct {
	Start  time.Time
	End    time.Time
	Weight int
	Label  string
}

// Window returns the bucket's range for filtering posts elsewhere.
func (b Bucket) Window() calendar.Window {
	return calendar.Window{Start: b.Start, End: b.End}
}

// Tier returns the heat tier, 0 through 4.
func (b Bucket) Tier() int { return Tier(b.Weight) }

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeYear
}

// Columns is the grid width the bucket sequence lays out in.
func (m Mode) Columns() int {
	switch m {
	case ModeMonth:
		return 6
	case ModeWeek:
		return 7
	}
	return 12
}

// Compute builds the ordered bucket sequence for mode relative to the
// calendar's current date.
func Compute(cal calendar.Calendar, mode Mode, posts []model.BlogPost) []Bucket {
	var buckets []Bucket
	switch mode {
	case ModeMonth:
		buckets = monthBuckets(cal)
	case ModeWeek:
		buckets = weekBuckets(cal)
	default:
		buckets = yearWeekBuckets(cal)
	}
	for i := range buckets {
		buckets[i].Weight = Weight(FilterPosts(posts, buckets[i].Window()))
	}
	return buckets
}

// yearWeekBuckets is always 53 seven-day buckets from January 1, so the last
// one may run into the next year.
func yearWeekBuckets(cal calendar.Calendar) []Bucket {
	jan1 := time.Date(cal.Now().Year(), time.January, 1, 0, 0, 0, 0, cal.Location())
	out := make([]Bucket, yearBuckets)
	for i := range out {
		start := cal.AddDays(jan1, i*7)
		out[i] = Bucket{
			Start: start,
			End:   cal.EndOfDay(cal.AddDays(start, 6)),
			Label: fmt.Sprintf("Week %d", i+1),
		}
	}
	return out
}

func monthBuckets(cal calendar.Calendar) []Bucket {
	year := cal.Now().Year()
	out := make([]Bucket, 12)
	for i := range out {
		m := time.Month(i + 1)
		start := time.Date(year, m, 1, 0, 0, 0, 0, cal.Location())
		last := time.Date(year, m, calendar.DaysIn(year, m), 0, 0, 0, 0, cal.Location())
		out[i] = Bucket{Start: start, End: cal.EndOfDay(last), Label: m.String()[:3]}
	}
	return out
}

func weekBuckets(cal calendar.Calendar) []Bucket {
	monday := cal.WeekStart(cal.Now())
	out := make([]Bucket, 7)
	for i := range out {
		d := cal.AddDays(monday, i)
		out[i] = Bucket{Start: d, End: cal.EndOfDay(d), Label: d.Weekday().String()[:3]}
	}
	return out
}

// Weight favours frequency over volume: every post is worth a thousand words.
func Weight(posts []model.BlogPost) int {
	w := len(posts) * postWeight
	for _, p := range posts {
		w += p.WordCount
	}
	return w
}

func Tier(weight int) int {
	if weight <= 0 {
		return 0
	}
	for i, threshold := range tierThresholds {
		if weight < threshold {
			return i + 1
		}
	}
	return len(tierThresholds) + 1
}

// FilterPosts returns the posts dated inside w, keeping their order.
func FilterPosts(posts []model.BlogPost, w calendar.Window) []model.BlogPost {
	var out []model.BlogPost
	for _, p := range posts {
		if w.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out
}
