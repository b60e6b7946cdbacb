package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/studypad/internal/model"
)

// ErrInvalidFile is returned for any import that does not parse as a snapshot.
var ErrInvalidFile = errors.New("invalid file")

// FileName is the default export file name for the day of t.
func FileName(t time.Time) string {
	return fmt.Sprintf("study_data_%s.json", t.Format("2006-01-02"))
}

// Encode serializes the snapshot with the same schema the store persists,
// indented for people.
func Encode(data model.AppData) ([]byte, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

func ToJSON(data model.AppData, path string) error {
	b, err := Encode(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// Decode parses an exported snapshot. Anything that is not a JSON object
// matching the schema yields ErrInvalidFile; there is no partial recovery.
func Decode(b []byte) (model.AppData, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return model.AppData{}, ErrInvalidFile
	}
	var data model.AppData
	if err := json.Unmarshal(trimmed, &data); err != nil {
		return model.AppData{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return data.Normalize(), nil
}

func FromJSON(path string) (model.AppData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.AppData{}, fmt.Errorf("read json file: %w", err)
	}
	return Decode(b)
}
