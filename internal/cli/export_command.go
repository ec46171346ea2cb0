package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize/english"

	"taskflow/internal/api"
	"taskflow/internal/errors"
	"taskflow/internal/export"
)

// ExportOptions selects what to export and where
type ExportOptions struct {
	Format string
	View   string
	Out    string
}

// ExportCommand handles the export command
type ExportCommand struct {
	app          *App
	opts         ExportOptions
	errorHandler *ErrorHandler
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App, opts ExportOptions) *ExportCommand {
	return &ExportCommand{app: app, opts: opts, errorHandler: NewErrorHandler()}
}

// Execute writes the selected tasks to the output file, or to the app's
// output when no file is given
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format, err := export.ParseFormat(c.opts.Format)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}

	views, err := c.app.businessAPI.ListTasks(ctx, api.TaskFilter{View: c.opts.View})
	if err != nil {
		return c.errorHandler.Handle("export tasks", err)
	}

	now := c.app.businessAPI.Now()
	records := make([]export.Record, 0, len(views))
	for _, v := range views {
		records = append(records, export.NewRecord(v.Task, v.CategoryName, now))
	}

	if c.opts.Out == "" {
		return c.write(c.app.out, format, records)
	}

	f, err := os.Create(c.opts.Out)
	if err != nil {
		return c.errorHandler.HandleSimple(errors.NewInvalidInputError("out", c.opts.Out, err.Error()))
	}
	if err := c.write(f, format, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", c.opts.Out, err)
	}
	fmt.Fprintf(c.app.out, "Exported %s to %s\n", english.Plural(len(records), "task", ""), c.opts.Out)
	return nil
}

func (c *ExportCommand) write(w io.Writer, format export.Format, records []export.Record) error {
	if err := export.Write(w, format, records, c.app.businessAPI.Now()); err != nil {
		return fmt.Errorf("failed to write %s export: %w", format, err)
	}
	return nil
}
