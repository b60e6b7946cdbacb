package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/state"
)

type tagsModel struct {
	ws     *workspace
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	formKind   string // "tag", "edit_tag", "delete_tag", "profile"

	// Form field pointers (survive value copies)
	formName    *string
	formColor   *string
	formMotto   *string
	formConfirm *bool

	editingID string
}

func newTagsModel(ws *workspace) tagsModel {
	name, color, motto, confirm := "", model.TagColors[0], "", false
	return tagsModel{
		ws:          ws,
		formName:    &name,
		formColor:   &color,
		formMotto:   &motto,
		formConfirm: &confirm,
	}
}

func (m *tagsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func colorOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(model.TagColors))
	for i, c := range model.TagColors {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", dot(c), c), c)
	}
	return opts
}

func tagOptions(tags []model.Tag) []huh.Option[string] {
	opts := make([]huh.Option[string], len(tags))
	for i, t := range tags {
		opts[i] = huh.NewOption(fmt.Sprintf("%s %s", dot(t.Color), t.Name), t.ID)
	}
	return opts
}

// usage counts the todos, posts and focus records that reference a tag.
func usage(data model.AppData, id string) (todos, posts, records int) {
	for _, t := range data.Todos {
		if slices.Contains(t.TagIDs, id) {
			todos++
		}
	}
	for _, p := range data.Posts {
		if slices.Contains(p.TagIDs, id) {
			posts++
		}
	}
	for _, r := range data.PomodoroRecords {
		if slices.Contains(r.TagIDs, id) {
			records++
		}
	}
	return todos, posts, records
}

func (m tagsModel) update(msg tea.Msg) (tagsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	tags := m.ws.data.Tags
	switch msg := msg.(type) {
	case dataChangedMsg:
		m.cursor = clamp(m.cursor, 0, len(tags)-1)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(tags)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showTagForm(nil)
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if m.cursor < len(tags) {
				return m.showTagForm(&tags[m.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if m.cursor < len(tags) {
				return m.showDeleteForm(tags[m.cursor])
			}
		case key.Matches(msg, keys.Profile):
			return m.showProfileForm()
		}
	}
	return m, nil
}

func (m tagsModel) showTagForm(tag *model.Tag) (tagsModel, tea.Cmd) {
	*m.formName = ""
	*m.formColor = model.TagColors[len(m.ws.data.Tags)%len(model.TagColors)]
	m.formKind = "tag"
	if tag != nil {
		*m.formName = tag.Name
		*m.formColor = tag.Color
		m.formKind = "edit_tag"
		m.editingID = tag.ID
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Tag Name").Value(m.formName).Validate(required("name")),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(m.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tagsModel) showDeleteForm(tag model.Tag) (tagsModel, tea.Cmd) {
	*m.formConfirm = false
	m.formKind = "delete_tag"
	m.editingID = tag.ID

	todos, posts, records := usage(m.ws.data, tag.ID)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete tag %q?", tag.Name)).
				Description(fmt.Sprintf("It is removed from %d todos, %d posts and %d focus sessions.", todos, posts, records)).
				Affirmative("Delete").
				Negative("Keep").
				Value(m.formConfirm),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tagsModel) showProfileForm() (tagsModel, tea.Cmd) {
	*m.formName = m.ws.data.AppName
	*m.formMotto = m.ws.data.Motto
	m.formKind = "profile"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("App Name").Value(m.formName),
			huh.NewInput().Title("Motto").Value(m.formMotto),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tagsModel) updateForm(msg tea.Msg) (tagsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if err := m.save(); err != nil {
			return m, errCmd("Save", err)
		}
		return m, dataChanged
	}

	return m, cmd
}

func (m tagsModel) save() error {
	switch m.formKind {
	case "tag":
		return m.ws.apply(state.AddTag{Name: *m.formName, Color: *m.formColor})
	case "edit_tag":
		return m.ws.apply(state.UpdateTag{ID: m.editingID, Name: *m.formName, Color: *m.formColor})
	case "delete_tag":
		if *m.formConfirm {
			return m.ws.apply(state.DeleteTag{ID: m.editingID})
		}
	case "profile":
		if err := m.ws.apply(state.SetAppName{Name: *m.formName}); err != nil {
			return err
		}
		return m.ws.apply(state.SetMotto{Motto: *m.formMotto})
	}
	return nil
}

func (m tagsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := map[string]string{
			"tag":        "New Tag",
			"edit_tag":   "Edit Tag",
			"delete_tag": "Delete Tag",
			"profile":    "Name & Motto",
		}[m.formKind]
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Tags"))
	rows = append(rows, "")

	tags := m.ws.data.Tags
	if len(tags) == 0 {
		rows = append(rows, mutedStyle.Render("No tags yet. Press n to create one."))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-20s %6s %6s %8s", "", "Name", "Todos", "Posts", "Sessions")))
	}
	for i, tag := range tags {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		todos, posts, records := usage(m.ws.data, tag.ID)
		rows = append(rows, style.Render(fmt.Sprintf("%s%s  %-20s %6d %6d %8d",
			cursor, dot(tag.Color), truncate(tag.Name, 20), todos, posts, records)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s · %s", m.ws.data.AppName, m.ws.data.Motto)))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  g: name & motto"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
