package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/domain"
)

// formatDue renders a due date relative to now
func formatDue(due *time.Time, now time.Time, layout string) string {
	if due == nil {
		return ""
	}
	today := domain.StartOfDay(now, now.Location())
	day := domain.StartOfDay(*due, now.Location())

	switch int(math.Round(day.Sub(today).Hours() / 24)) {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	case -1:
		return "yesterday"
	}
	return fmt.Sprintf("%s (%s)", day.Format(layout), humanize.RelTime(day, today, "ago", "from now"))
}

// isOverdue reports whether an open task's due day has passed
func isOverdue(t domain.Task, now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return domain.StartOfDay(*t.DueDate, now.Location()).Before(domain.StartOfDay(now, now.Location()))
}

// timerState names the state of a task's timer for display
func timerState(t domain.Task) string {
	switch {
	case t.IsTimerActive:
		return "running"
	case t.IsTimerStopped():
		return "stopped"
	case t.TimerTotalTime > 0:
		return "paused"
	}
	return ""
}

// writeTaskLine prints one task in the form
// [ ] 0197abcd  Title  (high, @Work, due tomorrow)  1:05 running
func writeTaskLine(w io.Writer, v *api.TaskView, now time.Time, cfg *config.Config) {
	t := v.Task

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}

	details := []string{string(t.Priority)}
	if v.CategoryName != "" {
		details = append(details, "@"+v.CategoryName)
	}
	if t.DueDate != nil {
		due := "due " + formatDue(t.DueDate, now, cfg.Display.DateFormat)
		if isOverdue(t, now) {
			due += ", overdue"
		}
		details = append(details, due)
	}

	line := fmt.Sprintf("%s %s  %s  (%s)", check, t.ShortID(), t.Title, strings.Join(details, ", "))
	if v.Elapsed != "" {
		line += fmt.Sprintf("  %s %s", v.Elapsed, timerState(t))
	}
	fmt.Fprintln(w, line)
}

// writeTaskDetail prints every field of a task, one per line
func writeTaskDetail(w io.Writer, v *api.TaskView, now time.Time, cfg *config.Config) {
	t := v.Task
	stamp := func(ts time.Time) string {
		return fmt.Sprintf("%s %s (%s)", ts.Local().Format(cfg.Display.DateFormat), ts.Local().Format(cfg.Display.TimeFormat), humanize.RelTime(ts, now, "ago", "from now"))
	}

	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", t.Description)
	}
	if v.CategoryName != "" {
		fmt.Fprintf(w, "Category:    %s\n", v.CategoryName)
	}
	fmt.Fprintf(w, "Priority:    %s\n", t.Priority)
	if t.DueDate != nil {
		fmt.Fprintf(w, "Due:         %s\n", formatDue(t.DueDate, now, cfg.Display.DateFormat))
	}
	if t.Completed && t.CompletedAt != nil {
		fmt.Fprintf(w, "Completed:   %s\n", stamp(*t.CompletedAt))
	} else {
		fmt.Fprintf(w, "Completed:   no\n")
	}
	fmt.Fprintf(w, "Created:     %s\n", stamp(t.CreatedAt))
	if v.Elapsed != "" {
		fmt.Fprintf(w, "Tracked:     %s (%s)\n", v.Elapsed, timerState(t))
	}
	if t.IsTimerActive && t.TimerLastStartTime != nil {
		fmt.Fprintf(w, "Running:     since %s\n", stamp(*t.TimerLastStartTime))
	}
}
