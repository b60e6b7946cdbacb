package model

import "math/rand/v2"

const DefaultAppName = "Study Assistant Pro"

var Mottos = []string{
	"The best time to plant a tree was ten years ago. The second best time is now.",
	"Stay hungry, stay foolish.",
	"Every day we do not dance is a day wasted.",
	"Code is poetry.",
	"The hard road is never crowded.",
}

// TagColors is the palette offered when creating or editing a tag.
var TagColors = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b", "#06b6d4",
	"#8b5cf6", "#ec4899", "#f97316", "#14b8a6", "#6366f1",
	"#f43f5e", "#71717a",
}

// DefaultData is the snapshot used when nothing has been persisted yet.
func DefaultData() AppData {
	return AppData{
		AppName: DefaultAppName,
		Motto:   Mottos[rand.IntN(len(Mottos))],
		Todos:   []Todo{},
		Posts:   []BlogPost{},
		Tags: []Tag{
			{ID: "1", Name: "STM32", Color: "#3b82f6"},
			{ID: "2", Name: "Linux", Color: "#10b981"},
			{ID: "3", Name: "C++", Color: "#f59e0b"},
			{ID: "4", Name: "Python", Color: "#06b6d4"},
			{ID: "5", Name: "RTOS", Color: "#a855f7"},
		},
		PomodoroRecords: []PomodoroRecord{},
		Images:          map[string]string{},
		Annotations:     map[string]DayAnnotation{},
	}
}
