package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskflow/internal/api"
	"taskflow/internal/config"
	"taskflow/internal/logging"
)

// APIFactory opens the business API for one command run. The returned close
// function releases the store and is called when the command finishes.
type APIFactory func(ctx context.Context, cfg *config.Config) (api.BusinessAPI, func() error, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd          *cobra.Command
	config       *config.Config
	factory      APIFactory
	errorHandler *ErrorHandler
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(cfg *config.Config, factory APIFactory) *RootCommand {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	root := &RootCommand{
		config:       cfg,
		factory:      factory,
		errorHandler: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "tf",
		Short: "A command-line task manager with timers",
		Long: `taskflow (tf) manages tasks, categories and per-task timers from the terminal.

FEATURES:
  • Add, edit, complete and delete tasks with priorities and due dates
  • Group tasks into categories
  • Run any number of task timers at once, pause, resume and stop them
  • Watch running timers live with tf watch
  • Recover timers left running after a crash
  • Export tasks as JSON, YAML or CSV

EXAMPLES:
  tf add "Write report" --due tomorrow -p high   # Add a task
  tf list                                        # Tasks due today
  tf list upcoming --open                        # Open tasks due later
  tf start 0197                                  # Start a timer by id prefix
  tf pause                                       # Pause every running timer
  tf watch                                       # Live active timers
  tf export --format csv --out tasks.csv         # Export every task

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  The config file is read from TF_CONFIG or ~/.config/taskflow/config.yaml.

  Store Configuration:
    TF_STORE_BACKEND                       memory, sqlite or postgres (default: sqlite)
    TF_STORE_DIR                           Data directory (default: ~/.taskflow)
    TF_STORE_FILENAME                      SQLite filename (default: taskflow.db)
    TF_POSTGRES_DSN                        Postgres connection string
    TF_STORE_TIMEOUT                       Per-operation timeout (default: 5s)

  Timer Configuration:
    TF_TIMER_TICK                          Watch display tick (default: 1s)
    TF_TIMER_REFRESH                       Watch store refresh (default: 5s)
    TF_TIMER_RESUME_AFTER_STOP             allow or reject (default: allow)

  Application Configuration:
    TF_APP_TIMEOUT                         Command timeout (default: 30s)
    TF_DEBUG                               Print debug output when set

GETTING HELP:
  tf [command] --help                      # Get help for any specific command
  tf completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("store", "", "Store backend: memory, sqlite or postgres (overrides TF_STORE_BACKEND)")
	flags.String("store-dir", "", "Data directory (overrides TF_STORE_DIR)")
	flags.String("postgres-dsn", "", "Postgres connection string (overrides TF_POSTGRES_DSN)")
	flags.Duration("store-timeout", 0, "Per-operation store timeout (overrides TF_STORE_TIMEOUT)")
	flags.String("resume-after-stop", "", "allow or reject (overrides TF_TIMER_RESUME_AFTER_STOP)")
	flags.Bool("no-hints", false, "Do not keep recovery hints")
	flags.Bool("verbose", false, "Enable verbose output (overrides TF_APP_VERBOSE)")
}

// applyFlags copies changed global flags into the configuration
func (r *RootCommand) applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("store") {
		v, _ := flags.GetString("store")
		overrides.Backend = &v
	}
	if flags.Changed("store-dir") {
		v, _ := flags.GetString("store-dir")
		overrides.StoreDir = &v
	}
	if flags.Changed("postgres-dsn") {
		v, _ := flags.GetString("postgres-dsn")
		overrides.PostgresDSN = &v
	}
	if flags.Changed("store-timeout") {
		v, _ := flags.GetDuration("store-timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("resume-after-stop") {
		v, _ := flags.GetString("resume-after-stop")
		overrides.ResumeAfterStop = &v
	}
	if flags.Changed("no-hints") {
		v, _ := flags.GetBool("no-hints")
		enabled := !v
		overrides.HintsEnabled = &enabled
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}

	overrides.Apply(r.config)
	return r.config.Validate()
}

// handler is the shape of every command body
type handler func(ctx context.Context, app *App, args []string) error

// run opens the business API for one command and closes it afterwards.
// Bounded commands run under the application timeout.
func (r *RootCommand) run(bounded bool, h handler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := r.applyFlags(cmd); err != nil {
			return r.errorHandler.Handle("load configuration", err)
		}
		if r.factory == nil {
			return fmt.Errorf("no store configured")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		businessAPI, closeFn, err := r.factory(ctx, r.config)
		if err != nil {
			return r.errorHandler.Handle("open store", err)
		}
		if closeFn != nil {
			defer func() {
				if err := closeFn(); err != nil {
					logging.Warnf("could not close store: %v", err)
				}
			}()
		}

		if bounded {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.config.Application.Timeout)
			defer cancel()
		}

		return h(ctx, NewApp(businessAPI, r.config, cmd.OutOrStdout()), args)
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.addCommand(),
		r.listCommand(),
		r.showCommand(),
		r.editCommand(),
		r.doneCommand(true),
		r.doneCommand(false),
		r.deleteCommand(),
		r.categoryCommand(),
		r.startCommand(),
		r.stopCommand(false),
		r.stopCommand(true),
		r.resumeCommand(),
		r.activeCommand(),
		r.watchCommand(),
		r.recoverCommand(),
		r.exportCommand(),
		r.summaryCommand(),
	)
}

func (r *RootCommand) addCommand() *cobra.Command {
	var opts AddOptions
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task. All arguments form the title.

Due dates accept today, tomorrow, 3d, 2w, a weekday name or YYYY-MM-DD.

Examples:
  tf add "Call the bank"
  tf add "Ship release" --due fri --priority urgent --category Work`,
		Args: cobra.MinimumNArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewAddCommand(app, opts).Execute(ctx, args)
		}),
	}
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Category name or id")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "medium", "low, medium, high or urgent")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date")
	return cmd
}

func (r *RootCommand) listCommand() *cobra.Command {
	var opts ListOptions
	cmd := &cobra.Command{
		Use:   "list [today|upcoming|all]",
		Short: "List tasks",
		Long: `List the tasks of a view.

Views:
  today      Due today, or open without a due date (default)
  upcoming   Due after today
  all        Every task

Examples:
  tf list
  tf list all --text report --sort due
  tf list upcoming --open --category Work`,
		Args: cobra.MaximumNArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewListCommand(app, opts).Execute(ctx, args)
		}),
	}
	cmd.Flags().StringVarP(&opts.Text, "text", "t", "", "Only tasks whose title or description contains text")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Only tasks in this category")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "priority", "priority, due, title or created")
	cmd.Flags().BoolVar(&opts.Open, "open", false, "Hide completed tasks")
	return cmd
}

func (r *RootCommand) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewShowCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) editCommand() *cobra.Command {
	var title, description, category, priority, due string
	cmd := &cobra.Command{
		Use:   "edit <task id>",
		Short: "Edit a task",
		Long: `Edit the fields of a task. Only the given flags change.

An empty --category or a --due of none clears the value.`,
		Args: cobra.ExactArgs(1),
	}
	cmd.RunE = r.run(true, func(ctx context.Context, app *App, args []string) error {
		flags := cmd.Flags()
		var edit api.TaskEdit
		if flags.Changed("title") {
			edit.Title = &title
		}
		if flags.Changed("description") {
			edit.Description = &description
		}
		if flags.Changed("category") {
			edit.Category = &category
		}
		if flags.Changed("priority") {
			edit.Priority = &priority
		}
		if flags.Changed("due") {
			edit.Due = &due
		}
		return NewEditCommand(app, edit).Execute(ctx, args)
	})
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category name or id")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "low, medium, high or urgent")
	cmd.Flags().StringVar(&due, "due", "", "Due date, or none")
	return cmd
}

func (r *RootCommand) doneCommand(completed bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task id>...",
		Short: "Mark tasks done",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewDoneCommand(app, completed).Execute(ctx, args)
		}),
	}
	if !completed {
		cmd.Use = "undo <task id>..."
		cmd.Short = "Mark tasks open again"
	}
	return cmd
}

func (r *RootCommand) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Long:    "Delete a task. A running timer is stopped first. This cannot be undone.",
		Args:    cobra.ExactArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewDeleteCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) categoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	var color, icon string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewCategoryCommand(app).Add(ctx, args, color, icon)
		}),
	}
	add.Flags().StringVar(&color, "color", "", "Hex color such as #8B5CF6")
	add.Flags().StringVar(&icon, "icon", "", "Icon name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewCategoryCommand(app).List(ctx)
		}),
	}

	rm := &cobra.Command{
		Use:   "rm <name or id>",
		Short: "Remove a category",
		Long:  "Remove a category. Categories that still have tasks are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewCategoryCommand(app).Remove(ctx, args)
		}),
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func (r *RootCommand) startCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <task id>",
		Short: "Start a task timer",
		Long:  "Start the timer of a task. Timers of other tasks keep running.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewStartCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) stopCommand(stop bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause [task id]",
		Short: "Pause timers",
		Long:  "Pause the timer of a task, keeping its session. Without an id every running timer is paused.",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewStopCommand(app, stop).Execute(ctx, args)
		}),
	}
	if stop {
		cmd.Use = "stop [task id]"
		cmd.Short = "Stop timers"
		cmd.Long = "Stop the timer of a task and end its session. Without an id every running timer is stopped."
	}
	return cmd
}

func (r *RootCommand) resumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <task id>",
		Short: "Resume a paused timer",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewResumeCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) activeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show running timers",
		Args:  cobra.NoArgs,
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewActiveCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) watchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch running timers live",
		Long: `Show running timers with a live clock.

Keys: up/down select, p pauses, s stops, ? shows help, q quits.`,
		Args: cobra.NoArgs,
		RunE: r.run(false, func(ctx context.Context, app *App, args []string) error {
			return NewWatchCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) recoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Report timers left running by an earlier session",
		Args:  cobra.NoArgs,
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewRecoverCommand(app).Execute(ctx, args)
		}),
	}
}

func (r *RootCommand) exportCommand() *cobra.Command {
	var opts ExportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks",
		Long: `Export tasks as JSON, YAML or CSV.

Examples:
  tf export --format json
  tf export --format csv --view today --out today.csv`,
		Args: cobra.NoArgs,
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewExportCommand(app, opts).Execute(ctx, args)
		}),
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "json, yaml or csv")
	cmd.Flags().StringVar(&opts.View, "view", "all", "today, upcoming or all")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func (r *RootCommand) summaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show task and time totals",
		Args:  cobra.NoArgs,
		RunE: r.run(true, func(ctx context.Context, app *App, args []string) error {
			return NewSummaryCommand(app).Execute(ctx, args)
		}),
	}
}
