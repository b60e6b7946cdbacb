package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sadopc/studypad/internal/model"
)

// ToCSV writes one row per pomodoro record, with start times in loc. Tags are
// resolved to names; references to deleted tags are written as Unknown.
func ToCSV(records []model.PomodoroRecord, tags []model.Tag, loc *time.Location, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Start", "Duration (min)", "Duration", "Tags"}); err != nil {
		return err
	}

	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.ID] = t.Name
	}

	for _, r := range records {
		tagNames := make([]string, 0, len(r.TagIDs))
		for _, id := range r.TagIDs {
			name, ok := names[id]
			if !ok {
				name = "Unknown"
			}
			tagNames = append(tagNames, name)
		}

		row := []string{
			r.ID,
			r.StartTime.In(loc).Format(time.RFC3339),
			fmt.Sprintf("%d", r.Duration),
			formatDuration(int64(r.Duration) * 60),
			strings.Join(tagNames, ";"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
