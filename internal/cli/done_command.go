package cli

import (
	"context"
	"fmt"

	"taskflow/internal/errors"
)

// DoneCommand handles the done and undo commands
type DoneCommand struct {
	app          *App
	completed    bool
	errorHandler *ErrorHandler
}

// NewDoneCommand creates a handler that marks tasks done, or open again
// when completed is false
func NewDoneCommand(app *App, completed bool) *DoneCommand {
	return &DoneCommand{app: app, completed: completed, errorHandler: NewErrorHandler()}
}

// Execute marks every referenced task. It stops at the first failure.
func (c *DoneCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", c.name(), fmt.Sprintf("usage: tf %s <task id>...", c.name()))
	}

	for _, ref := range args {
		task, err := c.app.businessAPI.SetCompleted(ctx, ref, c.completed)
		if err != nil {
			return c.errorHandler.Handle(fmt.Sprintf("mark %s %s", ref, c.state()), err)
		}
		fmt.Fprintf(c.app.out, "Marked %s %s: %s\n", task.ShortID(), c.state(), task.Title)
	}
	return nil
}

func (c *DoneCommand) name() string {
	if c.completed {
		return "done"
	}
	return "undo"
}

func (c *DoneCommand) state() string {
	if c.completed {
		return "done"
	}
	return "open"
}
