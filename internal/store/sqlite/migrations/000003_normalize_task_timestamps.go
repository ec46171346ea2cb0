package migrations

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taskflow/internal/logging"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_task_timestamps, Down_000003_normalize_task_timestamps)
}

var taskTimestampColumns = []string{
	"due_date",
	"completed_at",
	"created_at",
	"updated_at",
	"timer_start_time",
	"timer_last_start_time",
	"timer_completed_at",
}

// Up_000003_normalize_task_timestamps rewrites every task timestamp as UTC
// RFC3339. Rows imported from other tools may carry Go's default time
// format, zone offsets or a monotonic clock suffix; range queries and ORDER
// BY compare the text lexically.
func Up_000003_normalize_task_timestamps(tx *sql.Tx) error {
	type cell struct {
		id     string
		column string
		value  string
	}
	var cells []cell

	// Read everything first so the updates do not run under an open cursor
	for _, column := range taskTimestampColumns {
		rows, err := tx.Query(fmt.Sprintf("SELECT id, %s FROM tasks WHERE %s IS NOT NULL AND %s != ''", column, column, column))
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", column, err)
		}
		for rows.Next() {
			c := cell{column: column}
			if err := rows.Scan(&c.id, &c.value); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan %s: %w", column, err)
			}
			cells = append(cells, c)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("error iterating %s: %w", column, err)
		}
		rows.Close()
	}

	updates, failures := 0, 0
	for _, c := range cells {
		normalized, err := normalizeTimestamp(c.value)
		if err != nil {
			logging.Warnf("could not parse %s for task %s: %v", c.column, c.id, err)
			failures++
			continue
		}
		if normalized == c.value {
			continue
		}
		if _, err := tx.Exec(fmt.Sprintf("UPDATE tasks SET %s = ? WHERE id = ?", c.column), normalized, c.id); err != nil {
			return fmt.Errorf("failed to update %s for task %s: %w", c.column, c.id, err)
		}
		updates++
	}

	logging.Debugf("timestamp migration: %d values checked, %d updated, %d unparsable", len(cells), updates, failures)
	return nil
}

// Down_000003_normalize_task_timestamps is a no-op; normalized values are
// still readable by every earlier version.
func Down_000003_normalize_task_timestamps(tx *sql.Tx) error {
	return nil
}

// normalizeTimestamp parses the layouts Go and SQLite commonly produce and
// returns the UTC RFC3339 form.
func normalizeTimestamp(value string) (string, error) {
	value = stripMonotonicSuffix(strings.TrimSpace(value))

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST", // Go default with zone name
		"2006-01-02 15:04:05.999999999 -0700",     // Go default without zone name
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05.999999999", // SQLite CURRENT_TIMESTAMP with fraction, UTC
		"2006-01-02 15:04:05",
		"2006-01-02",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}

	return "", fmt.Errorf("could not parse time format: %s", value)
}

// stripMonotonicSuffix removes the monotonic clock reading from Go time strings.
func stripMonotonicSuffix(value string) string {
	if idx := strings.Index(value, " m="); idx != -1 {
		return value[:idx]
	}
	return value
}
