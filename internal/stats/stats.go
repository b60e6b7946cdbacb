// Package stats folds pomodoro records, posts, and todos into the totals,
// distributions, and trends shown on the statistics view.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

const (
	// DefaultTrendDays is the trailing window of the focus trend.
	DefaultTrendDays = 7

	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#f1f5f9"
	UnknownTagName     = "Unknown"
	UnknownTagColor    = "#cbd5e1"
)

// TagWeight is one bucket of a tag distribution. TagID is empty for the
// uncategorized bucket.
type TagWeight struct {
	TagID  string
	Name   string
	Color  string
	Weight int
}

func (w TagWeight) Uncategorized() bool { return w.TagID == "" }

// DayTotal is one entry of the focus trend.
type DayTotal struct {
	Day     time.Time
	Label   string // M/D
	Minutes int
}

// FocusTotal sums the durations of records, in minutes.
func FocusTotal(records []model.PomodoroRecord) int {
	total := 0
	for _, r := range records {
		total += r.Duration
	}
	return total
}

// PomodorosIn returns the records whose start lies inside w.
func PomodorosIn(records []model.PomodoroRecord, w calendar.Window) []model.PomodoroRecord {
	var out []model.PomodoroRecord
	for _, r := range records {
		if w.Contains(r.StartTime) {
			out = append(out, r)
		}
	}
	return out
}

// PomodoroTagDistribution weighs each record by its duration. A record with
// several tags adds its full duration to every one of them.
func PomodoroTagDistribution(records []model.PomodoroRecord, tags []model.Tag) []TagWeight {
	acc := newAccumulator()
	for _, r := range records {
		acc.add(r.TagIDs, r.Duration)
	}
	return acc.result(tags)
}

// PostTagDistribution counts posts per tag, with the same fan-out rule.
func PostTagDistribution(posts []model.BlogPost, tags []model.Tag) []TagWeight {
	acc := newAccumulator()
	for _, p := range posts {
		acc.add(p.TagIDs, 1)
	}
	return acc.result(tags)
}

type accumulator struct {
	order         []string
	weights       map[string]int
	uncategorized int
}

func newAccumulator() *accumulator {
	return &accumulator{weights: make(map[string]int)}
}

func (a *accumulator) add(tagIDs []string, weight int) {
	if len(tagIDs) == 0 {
		a.uncategorized += weight
		return
	}
	for _, id := range tagIDs {
		if _, ok := a.weights[id]; !ok {
			a.order = append(a.order, id)
		}
		a.weights[id] += weight
	}
}

func (a *accumulator) result(tags []model.Tag) []TagWeight {
	byID := make(map[string]model.Tag, len(tags))
	for _, t := range tags {
		byID[t.ID] = t
	}

	out := make([]TagWeight, 0, len(a.order)+1)
	for _, id := range a.order {
		w := TagWeight{TagID: id, Name: UnknownTagName, Color: UnknownTagColor, Weight: a.weights[id]}
		if t, ok := byID[id]; ok {
			w.Name, w.Color = t.Name, t.Color
		}
		out = append(out, w)
	}
	if a.uncategorized > 0 {
		out = append(out, TagWeight{Name: UncategorizedName, Color: UncategorizedColor, Weight: a.uncategorized})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Trend sums focus minutes per calendar day over the trailing window of
// days ending today. Every day is present, oldest first, even when empty.
func Trend(cal calendar.Calendar, records []model.PomodoroRecord, days int) []DayTotal {
	if days <= 0 {
		days = DefaultTrendDays
	}
	today := cal.Today()
	out := make([]DayTotal, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		d := cal.AddDays(today, i-days+1)
		out[i] = DayTotal{Day: d, Label: d.Format("1/2")}
		index[cal.DayKey(d)] = i
	}
	for _, r := range records {
		if i, ok := index[cal.DayKey(r.StartTime)]; ok {
			out[i].Minutes += r.Duration
		}
	}
	return out
}

// DayCount is the number of distinct calendar days with at least one record.
func DayCount(cal calendar.Calendar, records []model.PomodoroRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[cal.DayKey(r.StartTime)] = struct{}{}
	}
	return len(seen)
}

// CompletionRatio is completed/total over all todos using the plain
// completed flag. Recurring todos are counted without regard to their
// per-day completion. Zero todos yield 0.
func CompletionRatio(todos []model.Todo) float64 {
	if len(todos) == 0 {
		return 0
	}
	done := 0
	for _, t := range todos {
		if t.Completed {
			done++
		}
	}
	return float64(done) / float64(len(todos))
}

// Summary is the headline numbers of the statistics view.
type Summary struct {
	FocusMinutes      int
	Posts             int
	CompletionPercent int
	FocusDays         int
}

func Summarize(cal calendar.Calendar, data model.AppData) Summary {
	return Summary{
		FocusMinutes:      FocusTotal(data.PomodoroRecords),
		Posts:             len(data.Posts),
		CompletionPercent: int(math.Round(CompletionRatio(data.Todos) * 100)),
		FocusDays:         DayCount(cal, data.PomodoroRecords),
	}
}
