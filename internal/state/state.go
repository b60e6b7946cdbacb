// Package state is the single update entry point for the snapshot. Apply
// never mutates its input; every collection it changes is copied first, so
// earlier snapshots stay valid.
package state

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/sadopc/studypad/internal/calendar"
	"github.com/sadopc/studypad/internal/model"
	"github.com/sadopc/studypad/internal/notes"
	"github.com/sadopc/studypad/internal/recurrence"
)

// DefaultAnnotationColor is used when an annotation is saved without a color.
const DefaultAnnotationColor = "#3b82f6"

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalid       = errors.New("invalid action")
)

// Apply returns the snapshot that results from action. Blank text input
// leaves the snapshot unchanged with a nil error. On error the returned
// snapshot is data itself.
func Apply(data model.AppData, action Action, cal calendar.Calendar) (model.AppData, error) {
	switch a := action.(type) {
	case AddTodo:
		return addTodo(data, a, cal)
	case ToggleTodo:
		return toggleTodo(data, a, cal), nil
	case DeleteTodo:
		data.Todos = slices.DeleteFunc(slices.Clone(data.Todos), func(t model.Todo) bool { return t.ID == a.ID })
		return data, nil
	case SavePost:
		return savePost(data, a, cal), nil
	case DeletePost:
		data.Posts = slices.DeleteFunc(slices.Clone(data.Posts), func(p model.BlogPost) bool { return p.ID == a.ID })
		return data, nil
	case AddTag:
		return addTag(data, a), nil
	case UpdateTag:
		return updateTag(data, a), nil
	case DeleteTag:
		return deleteTag(data, a.ID), nil
	case AddPomodoro:
		return addPomodoro(data, a)
	case SetAnnotation:
		return setAnnotation(data, a, cal), nil
	case ClearAnnotation:
		key := cal.DayKey(a.Date)
		if _, ok := data.Annotations[key]; !ok {
			return data, nil
		}
		data.Annotations = maps.Clone(data.Annotations)
		delete(data.Annotations, key)
		return data, nil
	case AddImage:
		if strings.TrimSpace(a.ID) == "" || a.Data == "" {
			return data, nil
		}
		images := maps.Clone(data.Images)
		if images == nil {
			images = make(map[string]string)
		}
		images[a.ID] = a.Data
		data.Images = images
		return data, nil
	case AttachImage:
		return attachImage(data, a, cal), nil
	case SetAppName:
		data.AppName = a.Name
		return data, nil
	case SetMotto:
		data.Motto = a.Motto
		return data, nil
	case Replace:
		return a.Data.Normalize(), nil
	case nil:
		return data, fmt.Errorf("apply: %w: nil", ErrUnknownAction)
	default:
		return data, fmt.Errorf("apply %s: %w", action.actionName(), ErrUnknownAction)
	}
}

func addTodo(data model.AppData, a AddTodo, cal calendar.Calendar) (model.AppData, error) {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return data, nil
	}
	typ := a.Type
	if typ == "" {
		typ = model.TodoOnce
	}
	switch typ {
	case model.TodoOnce, model.TodoDaily, model.TodoWeekly, model.TodoTarget:
	default:
		return data, fmt.Errorf("add todo: %w: type %q", ErrInvalid, typ)
	}
	priority := a.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}
	if priority.Rank() == 0 {
		return data, fmt.Errorf("add todo: %w: priority %q", ErrInvalid, priority)
	}

	now := cal.Now()
	date := now
	if !a.Day.IsZero() {
		d := cal.Day(a.Day)
		date = time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, cal.Location())
	}

	todo := model.Todo{
		ID:       model.NewID(),
		Text:     text,
		Type:     typ,
		Priority: priority,
		Date:     date,
		TagIDs:   cloneIDs(a.TagIDs),
	}
	if todo.Recurring() {
		todo.CompletedDates = []string{}
	}
	data.Todos = append(slices.Clip(data.Todos), todo)
	return data, nil
}

func toggleTodo(data model.AppData, a ToggleTodo, cal calendar.Calendar) model.AppData {
	i := slices.IndexFunc(data.Todos, func(t model.Todo) bool { return t.ID == a.ID })
	if i < 0 {
		return data
	}
	todos := slices.Clone(data.Todos)
	todos[i] = recurrence.ToggleCompletion(cal, todos[i], a.Date)
	data.Todos = todos
	return data
}

func savePost(data model.AppData, a SavePost, cal calendar.Calendar) model.AppData {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Content) == "" {
		return data
	}
	post := model.BlogPost{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Date:      a.Date,
		TagIDs:    cloneIDs(a.TagIDs),
		WordCount: notes.WordCount(a.Content),
	}

	i := -1
	if a.ID != "" {
		i = slices.IndexFunc(data.Posts, func(p model.BlogPost) bool { return p.ID == a.ID })
	}
	if i < 0 {
		if post.ID == "" {
			post.ID = model.NewID()
		}
		if post.Date.IsZero() {
			post.Date = cal.Now()
		}
		data.Posts = append(slices.Clip(data.Posts), post)
		return data
	}

	if post.Date.IsZero() {
		post.Date = data.Posts[i].Date
	}
	posts := slices.Clone(data.Posts)
	posts[i] = post
	data.Posts = posts
	return data
}

func attachImage(data model.AppData, a AttachImage, cal calendar.Calendar) model.AppData {
	if strings.TrimSpace(a.ImageID) == "" || a.Data == "" {
		return data
	}
	i := slices.IndexFunc(data.Posts, func(p model.BlogPost) bool { return p.ID == a.PostID })
	if i < 0 {
		return data
	}
	post := data.Posts[i]

	images := maps.Clone(data.Images)
	if images == nil {
		images = make(map[string]string)
	}
	images[a.ImageID] = a.Data
	data.Images = images

	return savePost(data, SavePost{
		ID:      post.ID,
		Title:   post.Title,
		Content: notes.AttachImage(post.Content, a.ImageID),
		Date:    post.Date,
		TagIDs:  post.TagIDs,
	}, cal)
}

func addTag(data model.AppData, a AddTag) model.AppData {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return data
	}
	color := a.Color
	if color == "" {
		color = model.TagColors[len(data.Tags)%len(model.TagColors)]
	}
	data.Tags = append(slices.Clip(data.Tags), model.Tag{ID: model.NewID(), Name: name, Color: color})
	return data
}

func updateTag(data model.AppData, a UpdateTag) model.AppData {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return data
	}
	i := slices.IndexFunc(data.Tags, func(t model.Tag) bool { return t.ID == a.ID })
	if i < 0 {
		return data
	}
	tags := slices.Clone(data.Tags)
	tags[i].Name = name
	if a.Color != "" {
		tags[i].Color = a.Color
	}
	data.Tags = tags
	return data
}

// deleteTag drops the tag and strips its id from every todo, post, and
// pomodoro record in one step. A tag that does not exist still yields a
// freshly copied snapshot.
func deleteTag(data model.AppData, id string) model.AppData {
	data.Tags = slices.DeleteFunc(slices.Clone(data.Tags), func(t model.Tag) bool { return t.ID == id })

	todos := slices.Clone(data.Todos)
	for i := range todos {
		todos[i].TagIDs = withoutID(todos[i].TagIDs, id)
	}
	posts := slices.Clone(data.Posts)
	for i := range posts {
		posts[i].TagIDs = withoutID(posts[i].TagIDs, id)
	}
	records := slices.Clone(data.PomodoroRecords)
	for i := range records {
		records[i].TagIDs = withoutID(records[i].TagIDs, id)
	}

	data.Todos, data.Posts, data.PomodoroRecords = todos, posts, records
	return data
}

func addPomodoro(data model.AppData, a AddPomodoro) (model.AppData, error) {
	r := a.Record
	if r.Duration < 1 {
		return data, fmt.Errorf("add pomodoro: %w: duration %d", ErrInvalid, r.Duration)
	}
	if r.ID == "" {
		r.ID = model.NewID()
	}
	r.TagIDs = cloneIDs(r.TagIDs)
	data.PomodoroRecords = append(slices.Clip(data.PomodoroRecords), r)
	return data, nil
}

func setAnnotation(data model.AppData, a SetAnnotation, cal calendar.Calendar) model.AppData {
	label := strings.TrimSpace(a.Label)
	if label == "" {
		return data
	}
	color := a.Color
	if color == "" {
		color = DefaultAnnotationColor
	}
	key := cal.DayKey(a.Date)
	annotations := maps.Clone(data.Annotations)
	if annotations == nil {
		annotations = make(map[string]model.DayAnnotation)
	}
	annotations[key] = model.DayAnnotation{Date: key, Color: color, Label: label}
	data.Annotations = annotations
	return data
}

// withoutID always returns a new slice, never nil.
func withoutID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
