package notes

import (
	"strings"
	"testing"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
)

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"hello world", 11},
		{"嵌入式", 3},
		{"GPIO 配置", 7},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Image placeholders
// ============================================================

func TestAttachImageAndIDs(t *testing.T) {
	id := NewImageID()
	if !strings.HasPrefix(id, ImagePrefix) {
		t.Fatalf("image id %q lacks prefix", id)
	}
	content := AttachImage("# Notes", id)
	if content != "# Notes\n![image]("+id+")" {
		t.Fatalf("AttachImage = %q", content)
	}
	content = AttachImage(AttachImage(content, "img_2"), id)
	got := ImageIDs(content)
	if len(got) != 2 || got[0] != id || got[1] != "img_2" {
		t.Fatalf("ImageIDs = %v", got)
	}
}

func TestImageIDsIgnoresOtherLinks(t *testing.T) {
	if ids := ImageIDs("see ![diagram](x.png) and [image](img_1)"); len(ids) != 0 {
		t.Fatalf("ImageIDs = %v", ids)
	}
}

func TestRenderImages(t *testing.T) {
	content := "a " + ImagePlaceholder("img_1") + " b " + ImagePlaceholder("img_9")
	got := RenderImages(content, map[string]string{"img_1": "data:image/png;base64,AAAA"})
	if got != "a [image img_1] b [missing image img_9]" {
		t.Fatalf("RenderImages = %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("line one\n\nline   two "+ImagePlaceholder("img_1"), 100); got != "line one line two" {
		t.Fatalf("Excerpt = %q", got)
	}
	if got := Excerpt("abcdef", 3); got != "abc…" {
		t.Fatalf("Excerpt = %q", got)
	}
}

// ============================================================
// Search
// ============================================================

func searchData() model.AppData {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	return model.AppData{
		Tags: []model.Tag{{ID: "t1", Name: "RTOS"}},
		Posts: []model.BlogPost{
			{ID: "old", Title: "Timers", Content: "SysTick setup", Date: day(1), TagIDs: []string{}},
			{ID: "tagged", Title: "Scheduling", Content: "queues", Date: day(5), TagIDs: []string{"t1"}},
			{ID: "new", Title: "rtos notes", Content: "", Date: day(9), TagIDs: []string{"gone"}},
		},
	}
}

func postIDs(posts []model.BlogPost) []string {
	var out []string
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestSearchEmptyTermNewestFirst(t *testing.T) {
	got := postIDs(Search(searchData(), "  ", nil))
	want := []string{"new", "tagged", "old"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Search = %v, want %v", got, want)
	}
}

func TestSearchMatchesTitleContentAndTagName(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"systick", "old"},
		{"SCHED", "tagged"},
		{"rtos", "new,tagged"},
		{"nothing", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(postIDs(Search(searchData(), tt.term, nil)), ","); got != tt.want {
			t.Errorf("Search(%q) = %q, want %q", tt.term, got, tt.want)
		}
	}
}

func TestSearchWithinWindow(t *testing.T) {
	cal := calendar.Fixed(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	w := calendar.Window{
		Start: cal.Day(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
		End:   cal.EndOfDay(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
	got := postIDs(Search(searchData(), "", &w))
	if strings.Join(got, ",") != "new,tagged" {
		t.Fatalf("windowed search = %v", got)
	}
}
