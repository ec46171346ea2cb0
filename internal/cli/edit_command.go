package cli

import (
	"context"
	"fmt"

	"taskflow/internal/api"
	"taskflow/internal/errors"
)

// EditCommand handles the edit command
type EditCommand struct {
	app          *App
	edit         api.TaskEdit
	errorHandler *ErrorHandler
}

// NewEditCommand creates a new edit command handler. Nil fields of edit are
// left unchanged.
func NewEditCommand(app *App, edit api.TaskEdit) *EditCommand {
	return &EditCommand{app: app, edit: edit, errorHandler: NewErrorHandler()}
}

// Execute applies the edit to the referenced task
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit", "usage: tf edit <task id> [--title ...] [--due ...]")
	}
	e := c.edit
	if e.Title == nil && e.Description == nil && e.Category == nil && e.Priority == nil && e.Due == nil {
		return errors.NewInvalidInputError("edit", args[0], "nothing to change")
	}

	task, err := c.app.businessAPI.EditTask(ctx, args[0], c.edit)
	if err != nil {
		return c.errorHandler.Handle("edit task", err)
	}
	fmt.Fprintf(c.app.out, "Updated task %s: %s\n", task.ShortID(), task.Title)
	return nil
}
