package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/recurrence"
	"github.com/sadopc/studypad/internal/state"
)

var weekdayHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// todoTypes are the types the form offers. Target todos are never active on
// a day, so the day list could not show one created here.
var todoTypes = []model.TodoType{model.TodoOnce, model.TodoDaily, model.TodoWeekly}

var priorities = []model.Priority{model.PriorityNormal, model.PriorityImportant, model.PriorityUrgent}

type todosModel struct {
	ws     *workspace
	width  int
	height int

	selected time.Time // midnight of the selected day
	cursor   int

	formActive bool
	form       *huh.Form
	formKind   string // "todo", "annotation"

	// Form field pointers (survive value copies)
	formText     *string
	formType     *string
	formPriority *string
	formColor    *string
	formTags     *[]string
}

func newTodosModel(ws *workspace) todosModel {
	text, typ, prio, color := "", string(model.TodoOnce), string(model.PriorityNormal), state.DefaultAnnotationColor
	tags := []string{}
	return todosModel{
		ws:           ws,
		selected:     ws.cal.Today(),
		formText:     &text,
		formType:     &typ,
		formPriority: &prio,
		formColor:    &color,
		formTags:     &tags,
	}
}

func (t *todosModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

// dayTodos is the ordered list shown for the selected day.
func (t todosModel) dayTodos() []model.Todo {
	return recurrence.ForDay(t.ws.cal, t.ws.data.Todos, t.selected)
}

func (t todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dataChangedMsg:
		t.cursor = clamp(t.cursor, 0, len(t.dayTodos())-1)
		return t, nil

	case tea.KeyMsg:
		cal := t.ws.cal
		switch {
		case key.Matches(msg, keys.Left):
			t.selectDay(cal.AddDays(t.selected, -1))
		case key.Matches(msg, keys.Right):
			t.selectDay(cal.AddDays(t.selected, 1))
		case key.Matches(msg, keys.PrevMonth):
			t.selectDay(t.shiftMonth(-1))
		case key.Matches(msg, keys.NextMonth):
			t.selectDay(t.shiftMonth(1))
		case key.Matches(msg, keys.Today):
			t.selectDay(cal.Today())
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.dayTodos())-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			return t, t.toggleSelected()
		case key.Matches(msg, keys.Delete):
			return t, t.deleteSelected()
		case key.Matches(msg, keys.New):
			return t.showTodoForm()
		case key.Matches(msg, keys.Annotate):
			return t.showAnnotationForm()
		case key.Matches(msg, keys.Clear):
			if err := t.ws.apply(state.ClearAnnotation{Date: t.selected}); err != nil {
				return t, errCmd("Clear annotation", err)
			}
			return t, statusCmd("Annotation cleared")
		}
	}
	return t, nil
}

func (t *todosModel) selectDay(d time.Time) {
	t.selected = t.ws.cal.Day(d)
	t.cursor = 0
}

// shiftMonth moves the selection n months, clamping the day to the target
// month's length.
func (t todosModel) shiftMonth(n int) time.Time {
	loc := t.ws.cal.Location()
	y, m, d := t.selected.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, loc)
	d = min(d, calendar.DaysIn(first.Year(), first.Month()))
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, loc)
}

func (t todosModel) toggleSelected() tea.Cmd {
	todos := t.dayTodos()
	if t.cursor >= len(todos) {
		return nil
	}
	if err := t.ws.apply(state.ToggleTodo{ID: todos[t.cursor].ID, Date: t.selected}); err != nil {
		return errCmd("Toggle", err)
	}
	return dataChanged
}

func (t todosModel) deleteSelected() tea.Cmd {
	todos := t.dayTodos()
	if t.cursor >= len(todos) {
		return nil
	}
	if err := t.ws.apply(state.DeleteTodo{ID: todos[t.cursor].ID}); err != nil {
		return errCmd("Delete", err)
	}
	return tea.Batch(dataChanged, statusCmd("Todo deleted"))
}

func dataChanged() tea.Msg { return dataChangedMsg{} }

func (t todosModel) showTodoForm() (todosModel, tea.Cmd) {
	*t.formText = ""
	*t.formType = string(model.TodoOnce)
	*t.formPriority = string(model.PriorityNormal)
	*t.formTags = []string{}
	t.formKind = "todo"

	typeOptions := make([]huh.Option[string], len(todoTypes))
	for i, typ := range todoTypes {
		typeOptions[i] = huh.NewOption(string(typ), string(typ))
	}
	prioOptions := make([]huh.Option[string], len(priorities))
	for i, p := range priorities {
		prioOptions[i] = huh.NewOption(string(p), string(p))
	}

	fields := []huh.Field{
		huh.NewInput().Title("Todo").Value(t.formText).Validate(required("text")),
		huh.NewSelect[string]().Title("Repeat").Options(typeOptions...).Value(t.formType),
		huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(t.formPriority),
	}
	if len(t.ws.data.Tags) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("Tags").
			Options(tagOptions(t.ws.data.Tags)...).Value(t.formTags))
	}

	t.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	t.formActive = true
	return t, t.form.Init()
}

func (t todosModel) showAnnotationForm() (todosModel, tea.Cmd) {
	*t.formText = ""
	*t.formColor = state.DefaultAnnotationColor
	if a, ok := t.ws.data.Annotations[t.ws.cal.DayKey(t.selected)]; ok {
		*t.formText = a.Label
		*t.formColor = a.Color
	}
	t.formKind = "annotation"

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Value(t.formText).Validate(required("label")),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(t.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

// save applies the completed form.
func (t todosModel) save() error {
	switch t.formKind {
	case "todo":
		return t.ws.apply(state.AddTodo{
			Text:     *t.formText,
			Type:     model.TodoType(*t.formType),
			Priority: model.Priority(*t.formPriority),
			Day:      t.selected,
			TagIDs:   *t.formTags,
		})
	case "annotation":
		return t.ws.apply(state.SetAnnotation{Date: t.selected, Color: *t.formColor, Label: *t.formText})
	}
	return nil
}

func (t todosModel) updateForm(msg tea.Msg) (todosModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		if err := t.save(); err != nil {
			return t, errCmd("Save", err)
		}
		return t, dataChanged
	}

	return t, cmd
}

func (t todosModel) view() string {
	if t.formActive && t.form != nil {
		title := "New Todo · " + t.selected.Format("Mon Jan 2")
		if t.formKind == "annotation" {
			title = "Annotate · " + t.selected.Format("Mon Jan 2")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", t.form.View())
		return panelStyle.Width(t.width - 4).Render(content)
	}

	grid := t.renderMonth()
	listWidth := max(t.width-lipgloss.Width(grid)-6, 30)
	list := t.renderDay(listWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", list)
}

func (t todosModel) renderMonth() string {
	cal := t.ws.cal
	year, month := t.selected.Year(), t.selected.Month()
	loc := cal.Location()
	today := cal.Today()

	var rows []string
	rows = append(rows, titleStyle.Width(7*4).Align(lipgloss.Center).Render(t.selected.Format("January 2006")))
	rows = append(rows, "")

	var header []string
	for _, wd := range weekdayHeader {
		header = append(header, mutedStyle.Inherit(cellStyle).Render(wd))
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	grid := cal.MonthGrid(year, month)
	for week := 0; week < len(grid)/7; week++ {
		var cells []string
		for _, d := range grid[week*7 : week*7+7] {
			if d == 0 {
				cells = append(cells, cellStyle.Render(""))
				continue
			}
			day := time.Date(year, month, d, 0, 0, 0, 0, loc)
			label := fmt.Sprintf("%d", d)
			if a, ok := t.ws.data.Annotations[cal.DayKey(day)]; ok {
				label += lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color)).Render("*")
			}
			style := markerStyle(recurrence.DayMarker(cal, t.ws.data.Todos, day))
			switch {
			case day.Equal(t.selected):
				style = style.Inherit(selectedCellStyle)
			case day.Equal(today):
				style = style.Underline(true)
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("%s done  %s urgent  %s important",
		dot(string(colorSuccess)), dot(string(colorError)), dot(string(colorWarning))))

	if a, ok := t.ws.data.Annotations[cal.DayKey(t.selected)]; ok {
		rows = append(rows, "", dot(a.Color)+" "+a.Label)
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (t todosModel) renderDay(w int) string {
	cal := t.ws.cal
	title := titleStyle.Render(t.selected.Format("Monday, Jan 2"))

	var rows []string
	rows = append(rows, title)
	if recurrence.AllDone(cal, t.ws.data.Todos, model.TodoDaily, t.selected) {
		rows = append(rows, successStyle.Render("✓ All daily todos done"))
	}
	if recurrence.AllDone(cal, t.ws.data.Todos, model.TodoWeekly, t.selected) {
		rows = append(rows, successStyle.Render("✓ All weekly todos done this week"))
	}
	rows = append(rows, "")

	todos := t.dayTodos()
	if len(todos) == 0 {
		rows = append(rows, mutedStyle.Render("Nothing planned. Press n to add a todo."))
	}
	for i, todo := range todos {
		rows = append(rows, t.renderTodo(todo, i == t.cursor, w-6))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  space: toggle  d: delete  ←/→: day  [/]: month  t: today  a/A: annotate"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (t todosModel) renderTodo(todo model.Todo, selected bool, w int) string {
	done := recurrence.IsCompletedOn(t.ws.cal, todo, t.selected)

	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if done {
		check = successStyle.Render("[x]")
	}

	mark := " "
	switch todo.Priority {
	case model.PriorityUrgent:
		mark = "‼"
	case model.PriorityImportant:
		mark = "!"
	}

	style := priorityStyle(todo.Priority)
	switch {
	case done:
		style = doneItemStyle
	case selected:
		style = selectedItemStyle
	}

	var tags string
	for _, id := range todo.TagIDs {
		if tag := t.ws.data.TagByID(id); tag != nil {
			tags += dot(tag.Color)
		}
	}
	badge := ""
	if todo.Type != model.TodoOnce {
		badge = mutedStyle.Render(" (" + string(todo.Type) + ")")
	}

	text := truncate(todo.Text, w-12)
	return fmt.Sprintf("%s%s %s %s%s %s", cursor, check, priorityStyle(todo.Priority).Render(mark), style.Render(text), badge, tags)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
