package cli

import (
	"context"
	"fmt"

	"taskflow/internal/errors"
)

// StartCommand handles the start command
type StartCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute starts the timer of one task. Other running timers keep running.
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "start", "usage: tf start <task id>")
	}

	view, err := c.app.businessAPI.StartTimer(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("start timer", err)
	}

	if view.Task.TimerTotalTime > 0 {
		fmt.Fprintf(c.app.out, "Started timer for %s (%s so far)\n", view.Task.Title, view.Elapsed)
		return nil
	}
	fmt.Fprintf(c.app.out, "Started timer for %s\n", view.Task.Title)
	return nil
}
