package state

import (
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/notes"
)

var now = time.Date(2024, 1, 10, 14, 30, 15, 0, time.UTC)
var cal = calendar.Fixed(now)

func fixture() model.AppData {
	return model.AppData{
		AppName: "pad",
		Motto:   "go",
		Tags: []model.Tag{
			{ID: "a", Name: "Alpha", Color: "#111111"},
			{ID: "b", Name: "Beta", Color: "#222222"},
		},
		Todos: []model.Todo{
			{ID: "t1", Text: "once", Type: model.TodoOnce, Priority: model.PriorityNormal, Date: now, TagIDs: []string{"a", "b"}},
			{ID: "t2", Text: "daily", Type: model.TodoDaily, Priority: model.PriorityUrgent, Date: now, CompletedDates: []string{}, TagIDs: []string{"b"}},
		},
		Posts: []model.BlogPost{
			{ID: "p1", Title: "T", Content: "body", Date: now.AddDate(0, 0, -3), TagIDs: []string{"a"}, WordCount: 4},
		},
		PomodoroRecords: []model.PomodoroRecord{
			{ID: "r1", StartTime: now, Duration: 25, TagIDs: []string{"a"}},
			{ID: "r2", StartTime: now, Duration: 10, TagIDs: []string{}},
		},
		Images:      map[string]string{"img_1": "data"},
		Annotations: map[string]model.DayAnnotation{"2024-01-09": {Date: "2024-01-09", Color: "#000", Label: "exam"}},
	}
}

func mustApply(t *testing.T, data model.AppData, a Action) model.AppData {
	t.Helper()
	out, err := Apply(data, a, cal)
	if err != nil {
		t.Fatalf("Apply(%T): %v", a, err)
	}
	return out
}

// ============================================================
// Copy-on-write
// ============================================================

func TestApplyNeverMutatesInput(t *testing.T) {
	actions := []Action{
		AddTodo{Text: "new", Day: now},
		ToggleTodo{ID: "t1", Date: now},
		ToggleTodo{ID: "t2", Date: now},
		DeleteTodo{ID: "t1"},
		SavePost{Title: "x", Content: "y"},
		SavePost{ID: "p1", Title: "x", Content: "y"},
		DeletePost{ID: "p1"},
		AddTag{Name: "Gamma"},
		UpdateTag{ID: "a", Name: "A2"},
		DeleteTag{ID: "a"},
		AddPomodoro{Record: model.PomodoroRecord{StartTime: now, Duration: 5}},
		SetAnnotation{Date: now, Label: "demo"},
		ClearAnnotation{Date: now.AddDate(0, 0, -1)},
		AddImage{ID: "img_2", Data: "more"},
		AttachImage{PostID: "p1", ImageID: "img_3", Data: "png"},
		SetAppName{Name: "other"},
		SetMotto{Motto: "other"},
	}
	for _, a := range actions {
		in := fixture()
		before := fixture()
		if _, err := Apply(in, a, cal); err != nil {
			t.Fatalf("%T: %v", a, err)
		}
		if !reflect.DeepEqual(in, before) {
			t.Errorf("%T mutated its input", a)
		}
	}
}

func TestBlankInputIgnored(t *testing.T) {
	actions := []Action{
		AddTodo{Text: "   "},
		SavePost{Title: "", Content: "body"},
		SavePost{Title: "title", Content: " \n"},
		AddTag{Name: "\t"},
		UpdateTag{ID: "a", Name: ""},
		SetAnnotation{Date: now, Label: " "},
		AddImage{ID: "", Data: "x"},
		AttachImage{PostID: "p1", ImageID: " ", Data: "x"},
		AttachImage{PostID: "missing", ImageID: "img_9", Data: "x"},
	}
	for _, a := range actions {
		out, err := Apply(fixture(), a, cal)
		if err != nil {
			t.Errorf("%T: unexpected error %v", a, err)
		}
		if !reflect.DeepEqual(out, fixture()) {
			t.Errorf("%T with blank input changed the snapshot", a)
		}
	}
}

func TestAttachImage(t *testing.T) {
	out := mustApply(t, fixture(), AttachImage{PostID: "p1", ImageID: "img_7", Data: "data:image/png;base64,AA"})
	if out.Images["img_7"] != "data:image/png;base64,AA" {
		t.Fatalf("images = %v", out.Images)
	}
	post := out.Posts[0]
	if post.Content != "body\n![image](img_7)" {
		t.Fatalf("content = %q", post.Content)
	}
	if !post.Date.Equal(fixture().Posts[0].Date) || !slices.Equal(post.TagIDs, []string{"a"}) {
		t.Fatalf("attach changed date or tags: %+v", post)
	}
	if post.WordCount != notes.WordCount(post.Content) {
		t.Fatalf("wordCount = %d not recomputed", post.WordCount)
	}
}

func TestApplyNilAction(t *testing.T) {
	_, err := Apply(fixture(), nil, cal)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
}

// ============================================================
// Todos
// ============================================================

func TestAddTodo(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	tags := []string{"a"}
	out := mustApply(t, fixture(), AddTodo{Text: "  read datasheet ", Type: model.TodoWeekly, Priority: model.PriorityImportant, Day: day, TagIDs: tags})

	if len(out.Todos) != 3 {
		t.Fatalf("todos = %d", len(out.Todos))
	}
	got := out.Todos[2]
	if got.ID == "" || got.Text != "read datasheet" || got.Type != model.TodoWeekly || got.Priority != model.PriorityImportant {
		t.Fatalf("todo = %+v", got)
	}
	want := time.Date(2024, 1, 15, 14, 30, 15, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got.Date, want)
	}
	if got.CompletedDates == nil || len(got.CompletedDates) != 0 {
		t.Fatalf("weekly todo should start with an empty completion set, got %#v", got.CompletedDates)
	}
	tags[0] = "mutated"
	if got.TagIDs[0] != "a" {
		t.Fatal("todo should own its tag ids")
	}
}

func TestAddTodoDefaults(t *testing.T) {
	out := mustApply(t, model.AppData{}, AddTodo{Text: "x"})
	got := out.Todos[0]
	if got.Type != model.TodoOnce || got.Priority != model.PriorityNormal || !got.Date.Equal(now) || got.TagIDs == nil {
		t.Fatalf("defaults = %+v", got)
	}
}

func TestAddTodoRejectsUnknownType(t *testing.T) {
	in := fixture()
	out, err := Apply(in, AddTodo{Text: "x", Type: "monthly"}, cal)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
	if len(out.Todos) != len(in.Todos) {
		t.Fatal("failed action must keep the old snapshot")
	}
	if _, err := Apply(in, AddTodo{Text: "x", Priority: "meh"}, cal); !errors.Is(err, ErrInvalid) {
		t.Fatalf("priority err = %v", err)
	}
}

func TestToggleTodo(t *testing.T) {
	out := mustApply(t, fixture(), ToggleTodo{ID: "t2", Date: now})
	if !slices.Equal(out.Todos[1].CompletedDates, []string{"2024-01-10"}) {
		t.Fatalf("completedDates = %v", out.Todos[1].CompletedDates)
	}
	out = mustApply(t, out, ToggleTodo{ID: "t1", Date: now})
	if !out.Todos[0].Completed {
		t.Fatal("once todo should be completed")
	}
	back := mustApply(t, mustApply(t, out, ToggleTodo{ID: "t2", Date: now}), ToggleTodo{ID: "t1", Date: now})
	if !reflect.DeepEqual(back.Todos, fixture().Todos) {
		t.Fatalf("double toggle is not an identity: %+v", back.Todos)
	}
}

func TestToggleUnknownTodo(t *testing.T) {
	out := mustApply(t, fixture(), ToggleTodo{ID: "missing", Date: now})
	if !reflect.DeepEqual(out, fixture()) {
		t.Fatal("unknown id should be a no-op")
	}
}

func TestDeleteTodo(t *testing.T) {
	out := mustApply(t, fixture(), DeleteTodo{ID: "t1"})
	if len(out.Todos) != 1 || out.Todos[0].ID != "t2" {
		t.Fatalf("todos = %+v", out.Todos)
	}
}

// ============================================================
// Posts
// ============================================================

func TestSavePostNew(t *testing.T) {
	out := mustApply(t, fixture(), SavePost{Title: "GPIO", Content: "配置引脚"})
	p := out.Posts[1]
	if p.ID == "" || p.WordCount != 4 || !p.Date.Equal(now) || p.TagIDs == nil {
		t.Fatalf("post = %+v", p)
	}
}

func TestSavePostReplacesAndKeepsDate(t *testing.T) {
	in := fixture()
	out := mustApply(t, in, SavePost{ID: "p1", Title: "New", Content: "longer body", TagIDs: []string{"b"}})
	if len(out.Posts) != 1 {
		t.Fatalf("posts = %d", len(out.Posts))
	}
	p := out.Posts[0]
	if p.Title != "New" || p.WordCount != 11 || !p.Date.Equal(in.Posts[0].Date) || p.TagIDs[0] != "b" {
		t.Fatalf("post = %+v", p)
	}

	moved := now.AddDate(0, 0, 1)
	out = mustApply(t, in, SavePost{ID: "p1", Title: "New", Content: "x", Date: moved})
	if !out.Posts[0].Date.Equal(moved) {
		t.Fatalf("explicit date ignored: %v", out.Posts[0].Date)
	}
}

func TestDeletePost(t *testing.T) {
	out := mustApply(t, fixture(), DeletePost{ID: "p1"})
	if len(out.Posts) != 0 {
		t.Fatalf("posts = %+v", out.Posts)
	}
}

// ============================================================
// Tags
// ============================================================

func TestAddAndUpdateTag(t *testing.T) {
	out := mustApply(t, fixture(), AddTag{Name: "Gamma"})
	g := out.Tags[2]
	if g.ID == "" || g.Name != "Gamma" || g.Color != model.TagColors[2] {
		t.Fatalf("tag = %+v", g)
	}
	out = mustApply(t, out, UpdateTag{ID: g.ID, Name: "Gamma2"})
	if out.Tags[2].Name != "Gamma2" || out.Tags[2].Color != g.Color {
		t.Fatalf("updated = %+v", out.Tags[2])
	}
	out = mustApply(t, out, UpdateTag{ID: g.ID, Name: "Gamma2", Color: "#abcdef"})
	if out.Tags[2].Color != "#abcdef" {
		t.Fatalf("color not updated: %+v", out.Tags[2])
	}
}

func TestDeleteTagIsExhaustive(t *testing.T) {
	for _, id := range []string{"a", "b"} {
		out := mustApply(t, fixture(), DeleteTag{ID: id})
		if out.TagByID(id) != nil {
			t.Errorf("tag %s still in tag set", id)
		}
		for _, todo := range out.Todos {
			if slices.Contains(todo.TagIDs, id) {
				t.Errorf("todo %s still references %s", todo.ID, id)
			}
		}
		for _, p := range out.Posts {
			if slices.Contains(p.TagIDs, id) {
				t.Errorf("post %s still references %s", p.ID, id)
			}
		}
		for _, r := range out.PomodoroRecords {
			if slices.Contains(r.TagIDs, id) {
				t.Errorf("record %s still references %s", r.ID, id)
			}
		}
	}
}

func TestDeleteTagKeepsOtherReferences(t *testing.T) {
	out := mustApply(t, fixture(), DeleteTag{ID: "a"})
	if !slices.Equal(out.Todos[0].TagIDs, []string{"b"}) {
		t.Fatalf("todo tags = %v", out.Todos[0].TagIDs)
	}
	if len(out.Tags) != 1 || out.Tags[0].ID != "b" {
		t.Fatalf("tags = %+v", out.Tags)
	}
}

func TestDeleteUnknownTag(t *testing.T) {
	out, err := Apply(fixture(), DeleteTag{ID: "zzz"}, cal)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(out, fixture()) {
		t.Fatal("deleting an unknown tag should leave the content unchanged")
	}
}

// ============================================================
// Pomodoro records, annotations, images, scalars
// ============================================================

func TestAddPomodoro(t *testing.T) {
	out := mustApply(t, fixture(), AddPomodoro{Record: model.PomodoroRecord{StartTime: now, Duration: 2}})
	r := out.PomodoroRecords[2]
	if r.ID == "" || r.Duration != 2 || r.TagIDs == nil {
		t.Fatalf("record = %+v", r)
	}
	if _, err := Apply(fixture(), AddPomodoro{Record: model.PomodoroRecord{Duration: 0}}, cal); !errors.Is(err, ErrInvalid) {
		t.Fatalf("zero duration err = %v", err)
	}
}

func TestAnnotations(t *testing.T) {
	out := mustApply(t, fixture(), SetAnnotation{Date: now, Label: "demo day"})
	got := out.Annotations["2024-01-10"]
	if got.Date != "2024-01-10" || got.Label != "demo day" || got.Color != DefaultAnnotationColor {
		t.Fatalf("annotation = %+v", got)
	}
	out = mustApply(t, out, SetAnnotation{Date: now.Add(time.Hour), Label: "moved", Color: "#ef4444"})
	if len(out.Annotations) != 2 || out.Annotations["2024-01-10"].Label != "moved" {
		t.Fatalf("annotation should be overwritten: %+v", out.Annotations)
	}
	out = mustApply(t, out, ClearAnnotation{Date: now})
	if _, ok := out.Annotations["2024-01-10"]; ok {
		t.Fatal("annotation not cleared")
	}
}

func TestAddImageOnEmptySnapshot(t *testing.T) {
	out := mustApply(t, model.AppData{}, AddImage{ID: "img_1", Data: "payload"})
	if out.Images["img_1"] != "payload" {
		t.Fatalf("images = %v", out.Images)
	}
}

func TestScalars(t *testing.T) {
	out := mustApply(t, fixture(), SetAppName{Name: "Lab"})
	out = mustApply(t, out, SetMotto{Motto: "ship it"})
	if out.AppName != "Lab" || out.Motto != "ship it" {
		t.Fatalf("scalars = %q %q", out.AppName, out.Motto)
	}
}

func TestReplaceNormalizes(t *testing.T) {
	out := mustApply(t, fixture(), Replace{Data: model.AppData{AppName: "imported"}})
	if out.AppName != "imported" || out.Todos == nil || out.Images == nil || len(out.Tags) != 0 {
		t.Fatalf("replace = %+v", out)
	}
}
