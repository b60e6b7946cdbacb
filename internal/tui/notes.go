package tui

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/heatmap"
	"github.com/sadopc/studypad/internal/logger"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/notes"
	"github.com/sadopc/studypad/internal/state"
	"github.com/sadopc/studypad/internal/store"
)

const maxImageBytes = 5 << 20

type notesModel struct {
	ws     *workspace
	width  int
	height int

	mode   heatmap.Mode
	bucket int              // heatmap cursor
	window *calendar.Window // selected bucket, nil for all posts
	query  string
	cursor int

	reading string // id of the post open in the reader
	reader  viewport.Model

	formActive bool
	form       *huh.Form
	formKind   string // "post", "edit_post", "search", "image", "delete_post"

	// Form field pointers (survive value copies)
	formTitle   *string
	formContent *string
	formQuery   *string
	formPath    *string
	formTags    *[]string
	formConfirm *bool

	editingID string
}

func newNotesModel(ws *workspace) notesModel {
	title, content, query, path, confirm := "", "", "", "", false
	tags := []string{}
	n := notesModel{
		ws:          ws,
		mode:        heatmap.ModeYear,
		reader:      viewport.New(60, 10),
		formTitle:   &title,
		formContent: &content,
		formQuery:   &query,
		formPath:    &path,
		formTags:    &tags,
		formConfirm: &confirm,
	}
	if v, err := ws.store.GetSetting(store.SettingHeatmapMode); err == nil && slices.Contains(heatmap.Modes, heatmap.Mode(v)) {
		n.mode = heatmap.Mode(v)
	}
	n.bucket = n.currentBucket()
	return n
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
	n.reader.Width = max(w-10, 20)
	n.reader.Height = max(h-10, 5)
}

func (n notesModel) buckets() []heatmap.Bucket {
	return heatmap.Compute(n.ws.cal, n.mode, n.ws.data.Posts)
}

// currentBucket is the index of the bucket containing now.
func (n notesModel) currentBucket() int {
	now := n.ws.cal.Now()
	for i, b := range n.buckets() {
		if b.Window().Contains(now) {
			return i
		}
	}
	return 0
}

func (n notesModel) results() []model.BlogPost {
	return notes.Search(n.ws.data, n.query, n.window)
}

func (n notesModel) selectedPost() (model.BlogPost, bool) {
	posts := n.results()
	if n.cursor < len(posts) {
		return posts[n.cursor], true
	}
	return model.BlogPost{}, false
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.formActive && n.form != nil {
		return n.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dataChangedMsg:
		n.cursor = clamp(n.cursor, 0, len(n.results())-1)
		if n.reading != "" {
			n.openReader(n.reading)
		}
		return n, nil

	case tea.KeyMsg:
		if n.reading != "" {
			return n.updateReader(msg)
		}
		switch {
		case key.Matches(msg, keys.Left):
			if n.bucket > 0 {
				n.bucket--
			}
		case key.Matches(msg, keys.Right):
			if n.bucket < len(n.buckets())-1 {
				n.bucket++
			}
		case key.Matches(msg, keys.Toggle):
			n.toggleWindow()
		case key.Matches(msg, keys.Mode):
			return n.cycleMode()
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(n.results())-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if p, ok := n.selectedPost(); ok {
				n.openReader(p.ID)
			}
		case key.Matches(msg, keys.Back):
			n.query = ""
			n.window = nil
			n.cursor = 0
		case key.Matches(msg, keys.Search):
			return n.showSearchForm()
		case key.Matches(msg, keys.New):
			return n.showPostForm(nil)
		case key.Matches(msg, keys.Edit):
			if p, ok := n.selectedPost(); ok {
				return n.showPostForm(&p)
			}
		case key.Matches(msg, keys.Delete):
			if p, ok := n.selectedPost(); ok {
				return n.showDeleteForm(p)
			}
		case key.Matches(msg, keys.Image):
			if p, ok := n.selectedPost(); ok {
				return n.showImageForm(p)
			}
		}
	}
	return n, nil
}

func (n *notesModel) toggleWindow() {
	buckets := n.buckets()
	if n.bucket >= len(buckets) {
		return
	}
	w := buckets[n.bucket].Window()
	if n.window != nil && n.window.Start.Equal(w.Start) {
		n.window = nil
	} else {
		n.window = &w
	}
	n.cursor = 0
}

func (n notesModel) cycleMode() (notesModel, tea.Cmd) {
	n.mode = n.mode.Next()
	n.window = nil
	n.cursor = 0
	n.bucket = n.currentBucket()
	if err := n.ws.store.SetSetting(store.SettingHeatmapMode, string(n.mode)); err != nil {
		logger.Error("save heatmap mode failed", "err", err)
		return n, errCmd("Save mode", err)
	}
	return n, nil
}

func (n *notesModel) openReader(id string) {
	var post *model.BlogPost
	for i := range n.ws.data.Posts {
		if n.ws.data.Posts[i].ID == id {
			post = &n.ws.data.Posts[i]
		}
	}
	if post == nil {
		n.reading = ""
		return
	}
	n.reading = id
	n.reader.SetContent(notes.RenderImages(post.Content, n.ws.data.Images))
}

func (n notesModel) updateReader(msg tea.KeyMsg) (notesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
		n.reading = ""
		return n, nil
	case key.Matches(msg, keys.Edit):
		for _, p := range n.ws.data.Posts {
			if p.ID == n.reading {
				n.reading = ""
				return n.showPostForm(&p)
			}
		}
	}
	var cmd tea.Cmd
	n.reader, cmd = n.reader.Update(msg)
	return n, cmd
}

func (n notesModel) showPostForm(post *model.BlogPost) (notesModel, tea.Cmd) {
	*n.formTitle = ""
	*n.formContent = ""
	*n.formTags = []string{}
	n.formKind = "post"
	n.editingID = ""
	if post != nil {
		*n.formTitle = post.Title
		*n.formContent = post.Content
		*n.formTags = slices.Clone(post.TagIDs)
		n.formKind = "edit_post"
		n.editingID = post.ID
	}

	fields := []huh.Field{
		huh.NewInput().Title("Title").Value(n.formTitle).Validate(required("title")),
		huh.NewText().Title("Content (markdown)").Lines(12).CharLimit(100000).
			Value(n.formContent).Validate(required("content")),
	}
	if len(n.ws.data.Tags) > 0 {
		fields = append(fields, huh.NewMultiSelect[string]().Title("Tags").
			Options(tagOptions(n.ws.data.Tags)...).Value(n.formTags))
	}

	n.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true).WithShowErrors(true)
	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) showSearchForm() (notesModel, tea.Cmd) {
	*n.formQuery = n.query
	n.formKind = "search"
	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search title, content or tag").Value(n.formQuery),
		),
	).WithShowHelp(true)
	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) showDeleteForm(post model.BlogPost) (notesModel, tea.Cmd) {
	*n.formConfirm = false
	n.formKind = "delete_post"
	n.editingID = post.ID
	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(fmt.Sprintf("Delete %q?", post.Title)).
				Affirmative("Delete").Negative("Keep").Value(n.formConfirm),
		),
	).WithShowHelp(true)
	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) showImageForm(post model.BlogPost) (notesModel, tea.Cmd) {
	*n.formPath = ""
	n.formKind = "image"
	n.editingID = post.ID
	n.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Image file").Placeholder("/path/to/picture.png").
				Value(n.formPath).Validate(required("path")),
		),
	).WithShowHelp(true).WithShowErrors(true)
	n.formActive = true
	return n, n.form.Init()
}

func (n notesModel) updateForm(msg tea.Msg) (notesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			n.formActive = false
			n.form = nil
			return n, nil
		}
	}

	form, cmd := n.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		n.form = f
	}

	if n.form.State != huh.StateCompleted {
		return n, cmd
	}
	n.formActive = false

	switch n.formKind {
	case "search":
		n.query = strings.TrimSpace(*n.formQuery)
		n.cursor = 0
		return n, nil
	case "post", "edit_post":
		err := n.ws.apply(state.SavePost{
			ID:      n.editingID,
			Title:   *n.formTitle,
			Content: *n.formContent,
			TagIDs:  *n.formTags,
		})
		if err != nil {
			return n, errCmd("Save post", err)
		}
		return n, tea.Batch(dataChanged, statusCmd("Post saved"))
	case "delete_post":
		if !*n.formConfirm {
			return n, nil
		}
		if err := n.ws.apply(state.DeletePost{ID: n.editingID}); err != nil {
			return n, errCmd("Delete post", err)
		}
		return n, tea.Batch(dataChanged, statusCmd("Post deleted"))
	case "image":
		if err := n.attachImage(n.editingID, strings.TrimSpace(*n.formPath)); err != nil {
			return n, errCmd("Attach image", err)
		}
		return n, tea.Batch(dataChanged, statusCmd("Image attached"))
	}
	return n, nil
}

// attachImage stores the file as a data URL and appends its placeholder to
// the post's content.
func (n notesModel) attachImage(postID, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxImageBytes {
		return fmt.Errorf("%s is larger than %d MB", path, maxImageBytes>>20)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return errors.New("not an image: " + mime)
	}

	if !slices.ContainsFunc(n.ws.data.Posts, func(p model.BlogPost) bool { return p.ID == postID }) {
		return errors.New("post no longer exists")
	}

	return n.ws.apply(state.AttachImage{
		PostID:  postID,
		ImageID: notes.NewImageID(),
		Data:    "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw),
	})
}

func (n notesModel) view() string {
	w := n.width - 4

	if n.formActive && n.form != nil {
		title := map[string]string{
			"post":        "New Post",
			"edit_post":   "Edit Post",
			"search":      "Search Posts",
			"image":       "Attach Image",
			"delete_post": "Delete Post",
		}[n.formKind]
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), "", n.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if n.reading != "" {
		return n.renderReader(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left, n.renderHeatmap(w), n.renderList(w))
}

func (n notesModel) renderHeatmap(w int) string {
	buckets := n.buckets()
	cols := n.mode.Columns()

	cellWidth := 3
	if n.mode != heatmap.ModeYear {
		cellWidth = 6
	}

	var rows []string
	var line []string
	for i, b := range buckets {
		label := ""
		if n.mode != heatmap.ModeYear {
			label = b.Label
		}
		style := lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Background(heatColors[b.Tier()]).
			Foreground(colorFg).
			MarginRight(1)
		switch {
		case i == n.bucket:
			style = style.Reverse(true).Bold(true)
			if label == "" {
				label = "◆"
			}
		case n.window != nil && n.window.Start.Equal(b.Start):
			style = style.Underline(true)
			if label == "" {
				label = "●"
			}
		}
		line = append(line, style.Render(label))
		if len(line) == cols || i == len(buckets)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line = nil
		}
	}

	var caption string
	if n.bucket < len(buckets) {
		b := buckets[n.bucket]
		count := len(heatmap.FilterPosts(n.ws.data.Posts, b.Window()))
		caption = fmt.Sprintf("%s · %s – %s · %d posts", b.Label,
			b.Start.Format("Jan 2"), b.End.Format("Jan 2"), count)
	}

	legend := mutedStyle.Render("less ")
	for _, c := range heatColors {
		legend += lipgloss.NewStyle().Background(c).Render("  ") + " "
	}
	legend += mutedStyle.Render("more")

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Writing"), "  ",
		mutedStyle.Render(fmt.Sprintf("%s view", n.mode)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		header, "", strings.Join(rows, "\n"), "", highlightStyle.Render(caption), legend)
	return panelStyle.Width(w).Render(content)
}

func (n notesModel) renderList(w int) string {
	posts := n.results()

	var filters []string
	if n.window != nil {
		filters = append(filters, fmt.Sprintf("%s – %s", n.window.Start.Format("Jan 2"), n.window.End.Format("Jan 2")))
	}
	if n.query != "" {
		filters = append(filters, fmt.Sprintf("%q", n.query))
	}
	title := titleStyle.Render(fmt.Sprintf("Posts (%d)", len(posts)))
	if len(filters) > 0 {
		title += mutedStyle.Render("  filtered by " + strings.Join(filters, ", ") + "  esc: clear")
	}

	var rows []string
	rows = append(rows, title, "")
	if len(posts) == 0 {
		rows = append(rows, mutedStyle.Render("No posts. Press n to write one."))
	}

	visible := max(n.height-22, 3)
	start := clamp(n.cursor-visible+1, 0, len(posts)-1)
	for i := start; i < len(posts) && i < start+visible; i++ {
		p := posts[i]
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		var tags string
		for _, id := range p.TagIDs {
			if tag := n.ws.data.TagByID(id); tag != nil {
				tags += dot(tag.Color)
			}
		}
		date := p.Date.In(n.ws.cal.Location()).Format("2006-01-02")
		rows = append(rows, fmt.Sprintf("%s%s %s %s %s",
			cursor, mutedStyle.Render(date), style.Render(truncate(p.Title, 40)), tags,
			mutedStyle.Render(fmt.Sprintf("%d chars", p.WordCount))))
		rows = append(rows, mutedStyle.Render("    "+notes.Excerpt(p.Content, max(w-12, 20))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: bucket  space: filter  m: mode  /: search  n: new  e: edit  i: image  d: delete  enter: read"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (n notesModel) renderReader(w int) string {
	var post model.BlogPost
	for _, p := range n.ws.data.Posts {
		if p.ID == n.reading {
			post = p
		}
	}
	var tags []string
	for _, id := range post.TagIDs {
		if tag := n.ws.data.TagByID(id); tag != nil {
			tags = append(tags, dot(tag.Color)+" "+tag.Name)
		}
	}
	meta := mutedStyle.Render(fmt.Sprintf("%s · %d chars  ",
		post.Date.In(n.ws.cal.Location()).Format("Mon Jan 2, 2006 15:04"), post.WordCount)) + strings.Join(tags, "  ")

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(post.Title),
		meta,
		"",
		n.reader.View(),
		"",
		mutedStyle.Render(fmt.Sprintf("  ↑/↓: scroll  e: edit  esc: back  %3.0f%%", n.reader.ScrollPercent()*100)),
	)
	return activePanelStyle.Width(w).Render(content)
}
