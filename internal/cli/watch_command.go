package cli

import (
	"context"

	"taskflow/internal/timer"
	"taskflow/internal/tui"
)

// WatchCommand handles the watch command
type WatchCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App) *WatchCommand {
	return &WatchCommand{app: app, errorHandler: NewErrorHandler()}
}

// Model builds the live widget over the app's business API
func (c *WatchCommand) Model() tui.Model {
	cfg := c.app.config
	agg := timer.NewAggregator(c.app.businessAPI,
		timer.WithTickInterval(cfg.Timer.TickInterval),
		timer.WithRefreshInterval(cfg.Timer.RefreshInterval),
	)
	return tui.New(c.app.businessAPI, agg,
		tui.WithClock(c.app.businessAPI.Now),
		tui.WithCommandTimeout(cfg.Store.Timeout),
	)
}

// Execute shows the widget until the user quits or ctx is cancelled
func (c *WatchCommand) Execute(ctx context.Context, args []string) error {
	return c.errorHandler.HandleSimple(tui.Run(ctx, c.Model()))
}
