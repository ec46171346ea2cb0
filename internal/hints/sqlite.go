package hints

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskflow/internal/logging"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS timer_hints (
	task_id    TEXT PRIMARY KEY,
	start_time TEXT NOT NULL,
	is_active  INTEGER NOT NULL,
	timestamp  TEXT NOT NULL
)`

// SQLiteStore keeps hints in a small local database file, separate from the
// task database.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates the hint database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create hints directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hints database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialise hints database: %w", err)
		}
	}

	logging.Debugf("opened hints store %s", path)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, h Hint) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO timer_hints (task_id, start_time, is_active, timestamp)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			start_time = excluded.start_time,
			is_active  = excluded.is_active,
			timestamp  = excluded.timestamp`,
		h.TaskID, formatTime(h.StartTime), h.IsActive, formatTime(h.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to save hint for %s: %w", h.TaskID, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, taskID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM timer_hints WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("failed to remove hint for %s: %w", taskID, err)
	}
	return nil
}

// List returns hints ordered by task id. Rows with unreadable timestamps are
// skipped with a warning.
func (s *SQLiteStore) List(ctx context.Context) ([]Hint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT task_id, start_time, is_active, timestamp FROM timer_hints ORDER BY task_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hints: %w", err)
	}
	defer rows.Close()

	var out []Hint
	for rows.Next() {
		var (
			h         Hint
			start, ts string
		)
		if err := rows.Scan(&h.TaskID, &start, &h.IsActive, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan hint: %w", err)
		}
		if h.StartTime, err = time.Parse(time.RFC3339Nano, start); err != nil {
			logging.Warnf("skipping hint %s: bad start time %q", h.TaskID, start)
			continue
		}
		if h.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			logging.Warnf("skipping hint %s: bad timestamp %q", h.TaskID, ts)
			continue
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
