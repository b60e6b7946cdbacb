package state

import (
	"time"

	"github.com/sadopc/studypad/internal/model"
)

// Action is a request to change the snapshot. The concrete types below are
// the only actions Apply understands.
type Action interface {
	actionName() string
}

// AddTodo creates a todo on Day. The todo's timestamp is Day combined with
// the current time of day.
type AddTodo struct {
	Text     string
	Type     model.TodoType
	Priority model.Priority
	Day      time.Time
	TagIDs   []string
}

// ToggleTodo flips a todo's completion on Date. Unknown ids are a no-op.
type ToggleTodo struct {
	ID   string
	Date time.Time
}

type DeleteTodo struct{ ID string }

// SavePost inserts a new post when ID is empty or unknown, and replaces the
// existing one otherwise. A zero Date keeps the existing post's date, or uses
// now for a new post.
type SavePost struct {
	ID      string
	Title   string
	Content string
	Date    time.Time
	TagIDs  []string
}

type DeletePost struct{ ID string }

type AddTag struct {
	Name  string
	Color string
}

type UpdateTag struct {
	ID    string
	Name  string
	Color string
}

// DeleteTag removes the tag and every reference to it.
type DeleteTag struct{ ID string }

type AddPomodoro struct{ Record model.PomodoroRecord }

// SetAnnotation stores the note for Date's day, replacing any existing one.
type SetAnnotation struct {
	Date  time.Time
	Color string
	Label string
}

type ClearAnnotation struct{ Date time.Time }

// AddImage stores an image payload under ID.
type AddImage struct {
	ID   string
	Data string
}

// AttachImage stores an image and appends its placeholder to a post in one
// step. An unknown post is a no-op and stores nothing.
type AttachImage struct {
	PostID  string
	ImageID string
	Data    string
}

type SetAppName struct{ Name string }

type SetMotto struct{ Motto string }

// Replace swaps in a whole snapshot, as an import does.
type Replace struct{ Data model.AppData }

func (AddTodo) actionName() string         { return "add todo" }
func (ToggleTodo) actionName() string      { return "toggle todo" }
func (DeleteTodo) actionName() string      { return "delete todo" }
func (SavePost) actionName() string        { return "save post" }
func (DeletePost) actionName() string      { return "delete post" }
func (AddTag) actionName() string          { return "add tag" }
func (UpdateTag) actionName() string       { return "update tag" }
func (DeleteTag) actionName() string       { return "delete tag" }
func (AddPomodoro) actionName() string     { return "add pomodoro" }
func (SetAnnotation) actionName() string   { return "set annotation" }
func (ClearAnnotation) actionName() string { return "clear annotation" }
func (AddImage) actionName() string        { return "add image" }
func (AttachImage) actionName() string     { return "attach image" }
func (SetAppName) actionName() string      { return "set app name" }
func (SetMotto) actionName() string        { return "set motto" }
func (Replace) actionName() string         { return "replace" }
