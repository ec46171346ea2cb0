package cli

import (
	"context"
	"fmt"

	"taskflow/internal/api"
	"taskflow/internal/errors"
)

// ListOptions narrows a listing beyond its view
type ListOptions struct {
	Text     string
	Category string
	Sort     string
	Open     bool
}

// ListCommand handles the list command
type ListCommand struct {
	app          *App
	opts         ListOptions
	errorHandler *ErrorHandler
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, opts ListOptions) *ListCommand {
	return &ListCommand{
		app:          app,
		opts:         opts,
		errorHandler: NewErrorHandler(),
	}
}

// Execute runs the list command. The optional argument names the view:
// today (default), upcoming or all.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return errors.NewInvalidInputError("command", "list", "usage: tf list [today|upcoming|all]")
	}
	view := ""
	if len(args) == 1 {
		view = args[0]
	}

	tasks, err := c.app.businessAPI.ListTasks(ctx, api.TaskFilter{
		View:          view,
		Text:          c.opts.Text,
		Category:      c.opts.Category,
		HideCompleted: c.opts.Open,
		Sort:          c.opts.Sort,
	})
	if err != nil {
		return c.errorHandler.Handle("list tasks", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found.")
		return nil
	}

	now := c.app.businessAPI.Now()
	for _, t := range tasks {
		writeTaskLine(c.app.out, t, now, c.app.config)
	}
	return nil
}
