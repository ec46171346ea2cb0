package cli

import (
	"context"
	"fmt"

	"taskflow/internal/errors"
)

// ResumeCommand handles the resume command
type ResumeCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewResumeCommand creates a new resume command handler
func NewResumeCommand(app *App) *ResumeCommand {
	return &ResumeCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute continues a paused timer from its accumulated total
func (c *ResumeCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "resume", "usage: tf resume <task id>")
	}

	view, err := c.app.businessAPI.ResumeTimer(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("resume timer", err)
	}
	fmt.Fprintf(c.app.out, "Resumed timer for %s at %s\n", view.Task.Title, view.Elapsed)
	return nil
}
