package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"taskflow/internal/timer"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints task counts and tracked time, overall and per category
func (c *SummaryCommand) Execute(ctx context.Context, args []string) error {
	summary, err := c.app.businessAPI.GetSummary(ctx)
	if err != nil {
		return c.errorHandler.Handle("build summary", err)
	}

	out := c.app.out
	fmt.Fprintf(out, "Tasks:      %d (%d done, %d open)\n", summary.Total, summary.Completed, summary.Open)
	fmt.Fprintf(out, "Due today:  %d\n", summary.DueToday)
	fmt.Fprintf(out, "Overdue:    %d\n", summary.Overdue)
	fmt.Fprintf(out, "Timers:     %d running\n", summary.ActiveTimers)
	fmt.Fprintf(out, "Tracked:    %s\n", timer.HumanDuration(summary.TrackedSeconds))

	if len(summary.ByCategory) == 0 {
		return nil
	}

	width := 0
	for _, cs := range summary.ByCategory {
		width = max(width, len(cs.Name))
	}
	fmt.Fprintln(out, "\nBy category:")
	for _, cs := range summary.ByCategory {
		fmt.Fprintf(out, "  %s%s  %-9s  %s\n",
			cs.Name, strings.Repeat(" ", width-len(cs.Name)),
			english.Plural(cs.Tasks, "task", ""),
			timer.HumanDuration(cs.TrackedSeconds))
	}
	return nil
}
