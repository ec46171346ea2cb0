package sqlite

import (
	"database/sql"
	"time"
)

// FormatTimeForDB formats a time.Time value as a UTC RFC3339 string so that
// lexical order in SQL matches chronological order
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatTimePtrForDB formats a *time.Time value as RFC3339 string, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseNullTimeFromDB parses a nullable column, returning nil for NULL or
// empty values
func ParseNullTimeFromDB(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTimeFromDB(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatBoolForDB stores booleans as 0/1
func FormatBoolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}
