package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"taskflow/internal/timer"
)

// RecoverCommand handles the recover command
type RecoverCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewRecoverCommand creates a new recover command handler
func NewRecoverCommand(app *App) *RecoverCommand {
	return &RecoverCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute reports timers left running by an earlier session. The store is
// never changed; the user decides whether to pause or stop them.
func (c *RecoverCommand) Execute(ctx context.Context, args []string) error {
	report, err := c.app.businessAPI.Recover(ctx)
	if err != nil {
		return c.errorHandler.Handle("recover timers", err)
	}
	if report.IsEmpty() {
		fmt.Fprintln(c.app.out, "Nothing to recover.")
		return nil
	}

	now := c.app.businessAPI.Now()
	for _, lr := range report.LeftRunning {
		fmt.Fprintf(c.app.out, "%s  %s  running since %s (%s)\n",
			lr.Task.ShortID(), lr.Task.Title,
			humanize.RelTime(lr.HintStart, now, "ago", "from now"),
			timer.FormatElapsed(lr.Elapsed))
	}
	if n := len(report.LeftRunning); n > 0 {
		fmt.Fprintf(c.app.out, "%s left running. Use tf pause or tf stop to settle them.\n", english.Plural(n, "timer", ""))
	}
	if n := len(report.Stale); n > 0 {
		fmt.Fprintf(c.app.out, "Cleared %s.\n", english.Plural(n, "stale hint", ""))
	}
	return nil
}
