// Package export writes task listings as json, yaml or csv.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskflow/internal/domain"
	"taskflow/internal/errors"
	"taskflow/internal/timer"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat converts user input into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", errors.NewInvalidInputError("format", s, "must be one of json, yaml, csv")
}

// Record is one exported task
type Record struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Category       string `json:"category,omitempty" yaml:"category,omitempty"`
	Priority       string `json:"priority" yaml:"priority"`
	Due            string `json:"due,omitempty" yaml:"due,omitempty"`
	Completed      bool   `json:"completed" yaml:"completed"`
	CompletedAt    string `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CreatedAt      string `json:"created_at" yaml:"created_at"`
	TimerActive    bool   `json:"timer_active" yaml:"timer_active"`
	TrackedSeconds int64  `json:"tracked_seconds" yaml:"tracked_seconds"`
	Tracked        string `json:"tracked" yaml:"tracked"`
}

// Document is the top level of json and yaml exports
type Document struct {
	ExportedAt string   `json:"exported_at" yaml:"exported_at"`
	Count      int      `json:"count" yaml:"count"`
	Tasks      []Record `json:"tasks" yaml:"tasks"`
}

// NewRecord flattens a task. Running timers are measured up to now.
func NewRecord(t domain.Task, category string, now time.Time) Record {
	seconds := timer.Elapsed(t, now)
	r := Record{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Category:       category,
		Priority:       string(t.Priority),
		Completed:      t.Completed,
		CreatedAt:      t.CreatedAt.Local().Format(time.RFC3339),
		TimerActive:    t.IsTimerActive,
		TrackedSeconds: seconds,
		Tracked:        timer.FormatElapsed(seconds),
	}
	if t.DueDate != nil {
		r.Due = t.DueDate.Local().Format("2006-01-02")
	}
	if t.CompletedAt != nil {
		r.CompletedAt = t.CompletedAt.Local().Format(time.RFC3339)
	}
	return r
}

// NewDocument wraps records with export metadata
func NewDocument(records []Record, now time.Time) Document {
	if records == nil {
		records = []Record{}
	}
	return Document{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(records),
		Tasks:      records,
	}
}

// Write encodes the records to w in the given format
func Write(w io.Writer, format Format, records []Record, now time.Time) error {
	switch format {
	case FormatJSON:
		return ToJSON(w, NewDocument(records, now))
	case FormatYAML:
		return ToYAML(w, NewDocument(records, now))
	case FormatCSV:
		return ToCSV(w, records)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
