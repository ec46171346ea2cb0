package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"

	"taskflow/internal/api"
	"taskflow/internal/errors"
)

// StopCommand handles the pause and stop commands
type StopCommand struct {
	app          *App
	stop         bool
	errorHandler *ErrorHandler
}

// NewStopCommand creates a handler that stops timers, or pauses them when
// stop is false
func NewStopCommand(app *App, stop bool) *StopCommand {
	return &StopCommand{app: app, stop: stop, errorHandler: NewErrorHandler()}
}

// Execute pauses or stops the referenced timer. Without an argument every
// running timer is affected, skipping any that settled elsewhere after they
// were listed.
func (c *StopCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", c.name(), fmt.Sprintf("usage: tf %s [task id]", c.name()))
	}
	if len(args) == 1 {
		return c.one(ctx, args[0])
	}

	timers, err := c.app.businessAPI.ActiveTimers(ctx)
	if err != nil {
		return c.errorHandler.Handle("list active timers", err)
	}
	if len(timers) == 0 {
		fmt.Fprintln(c.app.out, "No timers running.")
		return nil
	}

	var skipped []string
	for _, t := range timers {
		view, err := c.apply(ctx, t.ID)
		if errors.IsErrorType(err, errors.ErrorTypeTimerState) {
			skipped = append(skipped, t.Title)
			continue
		}
		if err != nil {
			return c.errorHandler.Handle(c.name()+" timer", err)
		}
		c.report(view)
	}
	if len(skipped) > 0 {
		fmt.Fprintf(c.app.out, "Skipped %s no longer running: %s\n",
			english.Plural(len(skipped), "timer", ""), strings.Join(skipped, ", "))
	}
	return nil
}

func (c *StopCommand) one(ctx context.Context, ref string) error {
	view, err := c.apply(ctx, ref)
	if err != nil {
		return c.errorHandler.Handle(c.name()+" timer", err)
	}
	c.report(view)
	return nil
}

func (c *StopCommand) apply(ctx context.Context, ref string) (*api.TaskView, error) {
	if c.stop {
		return c.app.businessAPI.StopTimer(ctx, ref)
	}
	return c.app.businessAPI.PauseTimer(ctx, ref)
}

func (c *StopCommand) report(view *api.TaskView) {
	fmt.Fprintf(c.app.out, "%s timer for %s at %s\n", c.past(), view.Task.Title, view.Elapsed)
}

func (c *StopCommand) name() string {
	if c.stop {
		return "stop"
	}
	return "pause"
}

func (c *StopCommand) past() string {
	if c.stop {
		return "Stopped"
	}
	return "Paused"
}
