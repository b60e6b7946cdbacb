package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type TodoType string

const (
	TodoOnce   TodoType = "once"
	TodoDaily  TodoType = "daily"
	TodoWeekly TodoType = "weekly"
	TodoTarget TodoType = "target"
)

type Priority string

const (
	PriorityNormal    Priority = "normal"
	PriorityImportant Priority = "important"
	PriorityUrgent    Priority = "urgent"
)

// Rank orders priorities for display; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityImportant:
		return 2
	case PriorityNormal:
		return 1
	}
	return 0
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Todo is a task. Completed is only meaningful for once and target todos;
// daily and weekly todos track completion per date-key in CompletedDates.
type Todo struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	Completed      bool      `json:"completed"`
	CompletedDates []string  `json:"completedDates,omitempty"`
	Type           TodoType  `json:"type"`
	Priority       Priority  `json:"priority"`
	Date           time.Time `json:"date"`
	TagIDs         []string  `json:"tagIds"`
}

// Recurring reports whether completion is tracked per date-key.
func (t Todo) Recurring() bool {
	return t.Type == TodoDaily || t.Type == TodoWeekly
}

type BlogPost struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Date      time.Time `json:"date"`
	TagIDs    []string  `json:"tagIds"`
	WordCount int       `json:"wordCount"`
}

// PomodoroRecord is one finished or manually stopped focus session.
type PomodoroRecord struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	Duration  int       `json:"duration"` // minutes
	TagIDs    []string  `json:"tagIds"`
}

type DayAnnotation struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Color string `json:"color"`
	Label string `json:"label"`
}

// AppData is the whole persisted snapshot. It is replaced wholesale on every
// mutation and serialized as-is for storage and export.
type AppData struct {
	AppName         string                   `json:"appName"`
	Motto           string                   `json:"motto"`
	Todos           []Todo                   `json:"todos"`
	Posts           []BlogPost               `json:"posts"`
	Tags            []Tag                    `json:"tags"`
	PomodoroRecords []PomodoroRecord         `json:"pomodoroRecords"`
	Images          map[string]string        `json:"images"`
	Annotations     map[string]DayAnnotation `json:"annotations"`
}

// Normalize replaces nil collections with empty ones so that a decoded
// snapshot that omitted a field behaves like an empty one.
func (d AppData) Normalize() AppData {
	if d.Todos == nil {
		d.Todos = []Todo{}
	}
	if d.Posts == nil {
		d.Posts = []BlogPost{}
	}
	if d.Tags == nil {
		d.Tags = []Tag{}
	}
	if d.PomodoroRecords == nil {
		d.PomodoroRecords = []PomodoroRecord{}
	}
	if d.Images == nil {
		d.Images = map[string]string{}
	}
	if d.Annotations == nil {
		d.Annotations = map[string]DayAnnotation{}
	}
	for i := range d.Todos {
		if d.Todos[i].TagIDs == nil {
			d.Todos[i].TagIDs = []string{}
		}
		if d.Todos[i].Recurring() && d.Todos[i].CompletedDates == nil {
			d.Todos[i].CompletedDates = []string{}
		}
	}
	for i := range d.Posts {
		if d.Posts[i].TagIDs == nil {
			d.Posts[i].TagIDs = []string{}
		}
	}
	for i := range d.PomodoroRecords {
		if d.PomodoroRecords[i].TagIDs == nil {
			d.PomodoroRecords[i].TagIDs = []string{}
		}
	}
	return d
}

// TagByID returns the tag with the given id, or nil when it does not exist.
func (d AppData) TagByID(id string) *Tag {
	for i := range d.Tags {
		if d.Tags[i].ID == id {
			return &d.Tags[i]
		}
	}
	return nil
}

// TodoByID returns the todo with the given id, or nil.
func (d AppData) TodoByID(id string) *Todo {
	for i := range d.Todos {
		if d.Todos[i].ID == id {
			return &d.Todos[i]
		}
	}
	return nil
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// NewPomodoroRecord builds a record with a fresh id and a private copy of tagIDs.
func NewPomodoroRecord(start time.Time, minutes int, tagIDs []string) PomodoroRecord {
	tags := slices.Clone(tagIDs)
	if tags == nil {
		tags = []string{}
	}
	return PomodoroRecord{
		ID:        NewID(),
		StartTime: start,
		Duration:  minutes,
		TagIDs:    tags,
	}
}
