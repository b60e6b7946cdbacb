package recurrence

import (
	"testing"

	"github.com/sadopc/studypad/internal/model"
)

func todoWith(id string, typ model.TodoType, p model.Priority) model.Todo {
	t := newTodo(typ, day(2024, 1, 1))
	t.ID = id
	t.Priority = p
	return t
}

func ids(todos []model.Todo) []string {
	var out []string
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestForDayOrdering(t *testing.T) {
	done := todoWith("done-urgent", model.TodoOnce, model.PriorityUrgent)
	done.Completed = true
	todos := []model.Todo{
		todoWith("normal", model.TodoOnce, model.PriorityNormal),
		done,
		todoWith("important", model.TodoDaily, model.PriorityImportant),
		todoWith("urgent", model.TodoWeekly, model.PriorityUrgent),
		todoWith("normal2", model.TodoDaily, model.PriorityNormal),
	}

	got := ids(ForDay(cal, todos, day(2024, 1, 1)))
	want := []string{"urgent", "important", "normal", "normal2", "done-urgent"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestForDayFiltersInactive(t *testing.T) {
	todos := []model.Todo{
		todoWith("once", model.TodoOnce, model.PriorityNormal),
		todoWith("daily", model.TodoDaily, model.PriorityNormal),
		todoWith("target", model.TodoTarget, model.PriorityNormal),
	}
	got := ids(ForDay(cal, todos, day(2024, 1, 2)))
	if len(got) != 1 || got[0] != "daily" {
		t.Fatalf("got %v, want [daily]", got)
	}
}

func TestAllDone(t *testing.T) {
	a := todoWith("a", model.TodoDaily, model.PriorityNormal)
	b := todoWith("b", model.TodoDaily, model.PriorityNormal)
	d := day(2024, 1, 2)

	if AllDone(cal, nil, model.TodoDaily, d) {
		t.Fatal("no todos means not all done")
	}
	a = ToggleCompletion(cal, a, d)
	if AllDone(cal, []model.Todo{a, b}, model.TodoDaily, d) {
		t.Fatal("b is still open")
	}
	b = ToggleCompletion(cal, b, d)
	if !AllDone(cal, []model.Todo{a, b}, model.TodoDaily, d) {
		t.Fatal("both done")
	}
	if AllDone(cal, []model.Todo{a, b}, model.TodoWeekly, d) {
		t.Fatal("no weekly todos")
	}
}

func TestDayMarker(t *testing.T) {
	d := day(2024, 1, 1)
	urgent := todoWith("u", model.TodoOnce, model.PriorityUrgent)
	important := todoWith("i", model.TodoOnce, model.PriorityImportant)
	normal := todoWith("n", model.TodoOnce, model.PriorityNormal)
	daily := todoWith("d", model.TodoDaily, model.PriorityUrgent)

	tests := []struct {
		name  string
		todos []model.Todo
		want  MarkerKind
	}{
		{"empty", nil, MarkerNone},
		{"recurring ignored", []model.Todo{daily}, MarkerNone},
		{"urgent wins", []model.Todo{normal, important, urgent}, MarkerUrgent},
		{"important", []model.Todo{normal, important}, MarkerImportant},
		{"normal", []model.Todo{normal}, MarkerNormal},
	}
	for _, tt := range tests {
		if got := DayMarker(cal, tt.todos, d); got.Kind != tt.want {
			t.Errorf("%s: kind = %v, want %v", tt.name, got.Kind, tt.want)
		}
	}

	urgent.Completed = true
	normal.Completed = true
	if got := DayMarker(cal, []model.Todo{urgent, normal}, d); got.Kind != MarkerDone || got.Count != 2 {
		t.Fatalf("all done marker = %+v", got)
	}
}

func TestMarkerShade(t *testing.T) {
	tests := []struct{ count, want int }{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {9, 4}}
	for _, tt := range tests {
		if got := (Marker{Kind: MarkerNormal, Count: tt.count}).Shade(); got != tt.want {
			t.Errorf("Shade(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestOfType(t *testing.T) {
	todos := []model.Todo{
		todoWith("a", model.TodoDaily, model.PriorityNormal),
		todoWith("b", model.TodoWeekly, model.PriorityNormal),
		todoWith("c", model.TodoDaily, model.PriorityNormal),
	}
	if got := ids(OfType(todos, model.TodoDaily)); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("OfType = %v", got)
	}
}
