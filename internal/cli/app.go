package cli

import (
	"io"
	"os"

	"taskflow/internal/api"
	"taskflow/internal/config"
)

// App holds what every command handler needs: the business API, the
// configuration and where to write output.
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	out         io.Writer
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		out:         out,
	}
}
