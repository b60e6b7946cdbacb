package heatmap

import (
	"testing"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

// Thursday, 2024-03-14.
var cal = calendar.Fixed(time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC))

func post(y int, m time.Month, d, h, words int) model.BlogPost {
	return model.BlogPost{
		ID:        time.Date(y, m, d, h, 0, 0, 0, time.UTC).String(),
		Date:      time.Date(y, m, d, h, 0, 0, 0, time.UTC),
		WordCount: words,
		TagIDs:    []string{},
	}
}

// ============================================================
// Bucket layout
// ============================================================

func TestYearBuckets(t *testing.T) {
	buckets := Compute(cal, ModeYear, nil)
	if len(buckets) != 53 {
		t.Fatalf("year mode has %d buckets, want 53", len(buckets))
	}
	if cal.DayKey(buckets[0].Start) != "2024-01-01" {
		t.Fatalf("first bucket starts %v", buckets[0].Start)
	}
	if buckets[0].Label != "Week 1" || buckets[52].Label != "Week 53" {
		t.Fatalf("labels = %q .. %q", buckets[0].Label, buckets[52].Label)
	}
	for i := 1; i < len(buckets); i++ {
		gap := buckets[i].Start.Sub(buckets[i-1].End)
		if gap != time.Millisecond {
			t.Fatalf("bucket %d not contiguous: gap %v", i, gap)
		}
	}
	// 2024 has 366 days; the 53rd bucket starts Dec 30 and spills into 2025.
	last := buckets[52]
	if cal.DayKey(last.Start) != "2024-12-30" || cal.DayKey(last.End) != "2025-01-05" {
		t.Fatalf("last bucket = %s..%s", cal.DayKey(last.Start), cal.DayKey(last.End))
	}
}

func TestMonthBuckets(t *testing.T) {
	buckets := Compute(cal, ModeMonth, nil)
	if len(buckets) != 12 {
		t.Fatalf("month mode has %d buckets", len(buckets))
	}
	feb := buckets[1]
	if cal.DayKey(feb.Start) != "2024-02-01" || cal.DayKey(feb.End) != "2024-02-29" {
		t.Fatalf("february = %s..%s", cal.DayKey(feb.Start), cal.DayKey(feb.End))
	}
	if feb.Label != "Feb" {
		t.Fatalf("label = %q", feb.Label)
	}
	if !feb.End.Equal(cal.EndOfDay(feb.End)) {
		t.Fatalf("month bucket should end at the last millisecond, got %v", feb.End)
	}
}

func TestWeekBuckets(t *testing.T) {
	buckets := Compute(cal, ModeWeek, nil)
	if len(buckets) != 7 {
		t.Fatalf("week mode has %d buckets", len(buckets))
	}
	if cal.DayKey(buckets[0].Start) != "2024-03-11" || buckets[0].Label != "Mon" {
		t.Fatalf("first = %s %q", cal.DayKey(buckets[0].Start), buckets[0].Label)
	}
	if cal.DayKey(buckets[6].Start) != "2024-03-17" || buckets[6].Label != "Sun" {
		t.Fatalf("last = %s %q", cal.DayKey(buckets[6].Start), buckets[6].Label)
	}
	for _, b := range buckets {
		if b.Start.Hour() != 0 || b.End.Hour() != 23 || b.End.Nanosecond() != int(999*time.Millisecond) {
			t.Fatalf("bucket %s spans %v..%v", b.Label, b.Start, b.End)
		}
	}
}

func TestWeekBucketsOnSunday(t *testing.T) {
	sunday := calendar.Fixed(time.Date(2024, 3, 17, 22, 0, 0, 0, time.UTC))
	buckets := Compute(sunday, ModeWeek, nil)
	if sunday.DayKey(buckets[0].Start) != "2024-03-11" {
		t.Fatalf("sunday belongs to the week starting %s", sunday.DayKey(buckets[0].Start))
	}
}

// ============================================================
// Weights and tiers
// ============================================================

func TestWeight(t *testing.T) {
	posts := []model.BlogPost{post(2024, 3, 11, 9, 120), post(2024, 3, 12, 9, 30)}
	if got := Weight(posts); got != 2150 {
		t.Fatalf("Weight = %d, want 2150", got)
	}
	if Weight(nil) != 0 {
		t.Fatal("empty weight should be 0")
	}
}

func TestComputeWeighsPostsIntoBuckets(t *testing.T) {
	posts := []model.BlogPost{
		post(2024, 3, 11, 0, 100),  // Monday midnight
		post(2024, 3, 11, 23, 50),  // Monday late
		post(2024, 3, 13, 12, 400), // Wednesday
		post(2024, 3, 18, 9, 999),  // next week
	}
	buckets := Compute(cal, ModeWeek, posts)
	if buckets[0].Weight != 2150 {
		t.Errorf("monday = %d, want 2150", buckets[0].Weight)
	}
	if buckets[1].Weight != 0 {
		t.Errorf("tuesday = %d, want 0", buckets[1].Weight)
	}
	if buckets[2].Weight != 1400 {
		t.Errorf("wednesday = %d, want 1400", buckets[2].Weight)
	}

	months := Compute(cal, ModeMonth, posts)
	if months[2].Weight != 4000+1549 {
		t.Errorf("march = %d, want %d", months[2].Weight, 4000+1549)
	}
}

func TestWeightMonotonic(t *testing.T) {
	posts := []model.BlogPost{post(2024, 3, 12, 9, 10)}
	before := Compute(cal, ModeWeek, posts)[1].Weight
	for _, words := range []int{0, 1, 5000} {
		after := Compute(cal, ModeWeek, append(posts, post(2024, 3, 12, 15, words)))[1].Weight
		if after < before {
			t.Fatalf("adding a %d-word post lowered weight %d -> %d", words, before, after)
		}
	}
}

func TestTier(t *testing.T) {
	tests := []struct{ weight, want int }{
		{0, 0}, {1, 1}, {499, 1}, {500, 2}, {1999, 2},
		{2000, 3}, {4999, 3}, {5000, 4}, {100000, 4},
	}
	for _, tt := range tests {
		if got := Tier(tt.weight); got != tt.want {
			t.Errorf("Tier(%d) = %d, want %d", tt.weight, got, tt.want)
		}
	}
}

// ============================================================
// Selection
// ============================================================

func TestBucketWindowFiltersPosts(t *testing.T) {
	posts := []model.BlogPost{post(2024, 2, 29, 23, 1), post(2024, 3, 1, 0, 2), post(2024, 3, 31, 23, 3), post(2024, 4, 1, 0, 4)}
	march := Compute(cal, ModeMonth, posts)[2]
	got := FilterPosts(posts, march.Window())
	if len(got) != 2 || got[0].WordCount != 2 || got[1].WordCount != 3 {
		t.Fatalf("FilterPosts = %+v", got)
	}
}

func TestModeNextCycles(t *testing.T) {
	if ModeYear.Next() != ModeMonth || ModeMonth.Next() != ModeWeek || ModeWeek.Next() != ModeYear {
		t.Fatal("modes should cycle year -> month -> week -> year")
	}
	if Mode("bogus").Next() != ModeYear {
		t.Fatal("unknown mode should reset to year")
	}
}

func TestColumns(t *testing.T) {
	if ModeYear.Columns() != 12 || ModeMonth.Columns() != 6 || ModeWeek.Columns() != 7 {
		t.Fatal("unexpected grid widths")
	}
}
