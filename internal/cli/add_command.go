package cli

import (
	"context"
	"fmt"
	"strings"

	"taskflow/internal/api"
	"taskflow/internal/errors"
)

// AddOptions holds the optional fields of a new task
type AddOptions struct {
	Description string
	Category    string
	Priority    string
	Due         string
}

// AddCommand handles the add command
type AddCommand struct {
	app          *App
	opts         AddOptions
	errorHandler *ErrorHandler
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, opts AddOptions) *AddCommand {
	return &AddCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the add command. All arguments form the title.
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "add", "usage: tf add \"task title\"")
	}

	task, err := c.app.businessAPI.AddTask(ctx, api.AddTaskRequest{
		Title:       strings.Join(args, " "),
		Description: c.opts.Description,
		Category:    c.opts.Category,
		Priority:    c.opts.Priority,
		Due:         c.opts.Due,
	})
	if err != nil {
		return c.errorHandler.Handle("add task", err)
	}

	fmt.Fprintf(c.app.out, "Added task %s: %s\n", task.ShortID(), task.Title)
	return nil
}
