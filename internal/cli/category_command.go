package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"taskflow/internal/errors"
)

// CategoryCommand handles the category add, list and rm subcommands
type CategoryCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewCategoryCommand creates a new category command handler
func NewCategoryCommand(app *App) *CategoryCommand {
	return &CategoryCommand{app: app, errorHandler: NewErrorHandler()}
}

// Add creates a category named by the joined arguments
func (c *CategoryCommand) Add(ctx context.Context, args []string, color, icon string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "category add", "usage: tf category add <name>")
	}
	category, err := c.app.businessAPI.AddCategory(ctx, strings.Join(args, " "), color, icon)
	if err != nil {
		return c.errorHandler.Handle("add category", err)
	}
	fmt.Fprintf(c.app.out, "Added category %s\n", category.Name)
	return nil
}

// List prints every category with its task count
func (c *CategoryCommand) List(ctx context.Context) error {
	categories, err := c.app.businessAPI.ListCategories(ctx)
	if err != nil {
		return c.errorHandler.Handle("list categories", err)
	}
	if len(categories) == 0 {
		fmt.Fprintln(c.app.out, "No categories.")
		return nil
	}

	width := 0
	for _, cat := range categories {
		width = max(width, len(cat.Name))
	}
	for _, cat := range categories {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(cat.Color)).Render(cat.Name)
		padding := strings.Repeat(" ", width-len(cat.Name))
		fmt.Fprintf(c.app.out, "%s%s  %s\n", name, padding, english.Plural(cat.TaskCount, "task", ""))
	}
	return nil
}

// Remove deletes an unused category by id or name
func (c *CategoryCommand) Remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "category rm", "usage: tf category rm <name or id>")
	}
	category, err := c.app.businessAPI.RemoveCategory(ctx, args[0])
	if err != nil {
		return c.errorHandler.Handle("remove category", err)
	}
	fmt.Fprintf(c.app.out, "Removed category %s\n", category.Name)
	return nil
}
