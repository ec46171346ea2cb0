package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"taskflow/internal/timer"
)

// ActiveCommand handles the active command
type ActiveCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewActiveCommand creates a new active command handler
func NewActiveCommand(app *App) *ActiveCommand {
	return &ActiveCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints each running timer with its elapsed time
func (c *ActiveCommand) Execute(ctx context.Context, args []string) error {
	timers, err := c.app.businessAPI.ActiveTimers(ctx)
	if err != nil {
		return c.errorHandler.Handle("list active timers", err)
	}
	if len(timers) == 0 {
		fmt.Fprintln(c.app.out, "No timers running.")
		return nil
	}

	now := c.app.businessAPI.Now()
	var total int64
	for _, at := range timers {
		seconds := timer.Elapsed(at.Task(), now)
		total += seconds
		fmt.Fprintf(c.app.out, "%s  %8s  %s  (started %s)\n",
			at.Task().ShortID(), timer.FormatElapsed(seconds), at.Title,
			humanize.RelTime(at.StartTime, now, "ago", "from now"))
	}
	if len(timers) > 1 {
		fmt.Fprintf(c.app.out, "Total: %s\n", timer.FormatElapsed(total))
	}
	return nil
}
