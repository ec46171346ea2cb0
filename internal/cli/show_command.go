package cli

import (
	"context"

	"taskflow/internal/errors"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute prints every field of one task
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "show", "usage: tf show <task id>")
	}
	view, err := c.app.businessAPI.GetTask(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("show task", err)
	}
	writeTaskDetail(c.app.out, view, c.app.businessAPI.Now(), c.app.config)
	return nil
}
