package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/studypad/internal/model"
)

// SnapshotKey is the kv key holding the serialized AppData.
const SnapshotKey = "study_assistant_data"

// ErrNotFound is returned when a key or backup does not exist.
var ErrNotFound = errors.New("not found")

// Backup is a snapshot saved before it was replaced.
type Backup struct {
	ID        int64
	Reason    string
	CreatedAt time.Time
}

func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// LoadSnapshot returns the persisted snapshot, or the default one when
// nothing has been saved yet.
func (s *Store) LoadSnapshot() (model.AppData, error) {
	raw, err := s.Get(SnapshotKey)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultData(), nil
	}
	if err != nil {
		return model.AppData{}, err
	}
	var data model.AppData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return model.AppData{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return data.Normalize(), nil
}

// SaveSnapshot replaces the persisted snapshot with data.
func (s *Store) SaveSnapshot(data model.AppData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.Put(SnapshotKey, string(raw))
}

// BackupSnapshot copies the persisted snapshot into the backups table. It is
// a no-op when nothing has been saved yet.
func (s *Store) BackupSnapshot(reason string) error {
	_, err := s.db.Exec(
		`INSERT INTO backups (reason, value) SELECT ?, value FROM kv WHERE key = ?`,
		reason, SnapshotKey,
	)
	if err != nil {
		return fmt.Errorf("backup snapshot: %w", err)
	}
	return nil
}

// ListBackups returns backups newest first.
func (s *Store) ListBackups() ([]Backup, error) {
	rows, err := s.db.Query(`SELECT id, reason, created_at FROM backups ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	defer rows.Close()

	var backups []Backup
	for rows.Next() {
		var b Backup
		var created string
		if err := rows.Scan(&b.ID, &b.Reason, &created); err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		at, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("list backups: backup %d: %w", b.ID, err)
		}
		b.CreatedAt = at
		backups = append(backups, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return backups, nil
}

// LoadBackup decodes the snapshot stored in backup id.
func (s *Store) LoadBackup(id int64) (model.AppData, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM backups WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AppData{}, fmt.Errorf("backup %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.AppData{}, fmt.Errorf("backup %d: %w", id, err)
	}
	var data model.AppData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return model.AppData{}, fmt.Errorf("decode backup %d: %w", id, err)
	}
	return data.Normalize(), nil
}
