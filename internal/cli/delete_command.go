package cli

import (
	"context"
	"fmt"

	"taskflow/internal/errors"
	"taskflow/internal/timer"
)

// DeleteCommand handles the rm command
type DeleteCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute deletes the referenced task. A running timer is stopped first so
// its time is reported.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "rm", "usage: tf rm <task id>")
	}

	task, err := c.app.businessAPI.DeleteTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("delete task", err)
	}

	if task.TimerTotalTime > 0 {
		fmt.Fprintf(c.app.out, "Deleted task %s: %s (tracked %s)\n", task.ShortID(), task.Title, timer.FormatElapsed(task.TimerTotalTime))
		return nil
	}
	fmt.Fprintf(c.app.out, "Deleted task %s: %s\n", task.ShortID(), task.Title)
	return nil
}
