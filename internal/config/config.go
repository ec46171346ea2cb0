package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Store backends selectable at process start
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Resume-after-stop policies
const (
	ResumeAllow  = "allow"
	ResumeReject = "reject"
)

// Config holds all configuration options for taskflow. It is built once at
// startup and passed explicitly to every component that needs it.
type Config struct {
	Store       StoreConfig
	Timer       TimerConfig
	Hints       HintsConfig
	Validation  ValidationConfig
	Display     DisplayConfig
	Application ApplicationConfig
}

// StoreConfig selects and tunes the task store backing
type StoreConfig struct {
	Backend        string        `env:"TF_STORE_BACKEND"`
	Dir            string        `env:"TF_STORE_DIR"`
	Filename       string        `env:"TF_STORE_FILENAME"`
	PostgresDSN    string        `env:"TF_POSTGRES_DSN"`
	Timeout        time.Duration `env:"TF_STORE_TIMEOUT"`
	Latency        time.Duration `env:"TF_STORE_LATENCY"`
	DirPermissions uint32        `env:"TF_STORE_DIR_PERMISSIONS"`
}

// TimerConfig holds timer engine and aggregator settings
type TimerConfig struct {
	TickInterval    time.Duration `env:"TF_TIMER_TICK"`
	RefreshInterval time.Duration `env:"TF_TIMER_REFRESH"`
	ResumeAfterStop string        `env:"TF_TIMER_RESUME_AFTER_STOP"`
}

// HintsConfig holds the local recovery-hint storage settings
type HintsConfig struct {
	Enabled  bool   `env:"TF_HINTS_ENABLED"`
	Filename string `env:"TF_HINTS_FILENAME"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMinLength int `env:"TF_VALIDATION_TITLE_MIN"`
	TitleMaxLength int `env:"TF_VALIDATION_TITLE_MAX"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	TimeFormat string `env:"TF_DISPLAY_TIME_FORMAT"`
	DateFormat string `env:"TF_DISPLAY_DATE_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TF_APP_TIMEOUT"`
	Verbose bool          `env:"TF_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDir := filepath.Join(homeDir, ".taskflow")

	return &Config{
		Store: StoreConfig{
			Backend:        BackendSQLite,
			Dir:            defaultDir,
			Filename:       "taskflow.db",
			Timeout:        5 * time.Second,
			DirPermissions: 0755,
		},
		Timer: TimerConfig{
			TickInterval:    time.Second,
			RefreshInterval: 5 * time.Second,
			ResumeAfterStop: ResumeAllow,
		},
		Hints: HintsConfig{
			Enabled:  true,
			Filename: "hints.db",
		},
		Validation: ValidationConfig{
			TitleMinLength: 1,
			TitleMaxLength: 255,
		},
		Display: DisplayConfig{
			TimeFormat: "15:04",
			DateFormat: "Jan 2",
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the sqlite task database
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Store.Dir, c.Store.Filename)
}

// GetHintsPath returns the full path to the recovery-hint database
func (c *Config) GetHintsPath() string {
	return filepath.Join(c.Store.Dir, c.Hints.Filename)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Store configuration
	if backend := os.Getenv("TF_STORE_BACKEND"); backend != "" {
		c.Store.Backend = backend
	}
	if dir := os.Getenv("TF_STORE_DIR"); dir != "" {
		c.Store.Dir = dir
	}
	if filename := os.Getenv("TF_STORE_FILENAME"); filename != "" {
		c.Store.Filename = filename
	}
	if dsn := os.Getenv("TF_POSTGRES_DSN"); dsn != "" {
		c.Store.PostgresDSN = dsn
	}
	if timeout := os.Getenv("TF_STORE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Store.Timeout = d
		}
	}
	if latency := os.Getenv("TF_STORE_LATENCY"); latency != "" {
		if d, err := time.ParseDuration(latency); err == nil {
			c.Store.Latency = d
		}
	}
	if perms := os.Getenv("TF_STORE_DIR_PERMISSIONS"); perms != "" {
		if p, err := strconv.ParseUint(perms, 8, 32); err == nil {
			c.Store.DirPermissions = uint32(p)
		}
	}

	// Timer configuration
	if tick := os.Getenv("TF_TIMER_TICK"); tick != "" {
		if d, err := time.ParseDuration(tick); err == nil {
			c.Timer.TickInterval = d
		}
	}
	if refresh := os.Getenv("TF_TIMER_REFRESH"); refresh != "" {
		if d, err := time.ParseDuration(refresh); err == nil {
			c.Timer.RefreshInterval = d
		}
	}
	if policy := os.Getenv("TF_TIMER_RESUME_AFTER_STOP"); policy != "" {
		c.Timer.ResumeAfterStop = policy
	}

	// Hints configuration
	if enabled := os.Getenv("TF_HINTS_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			c.Hints.Enabled = b
		}
	}
	if filename := os.Getenv("TF_HINTS_FILENAME"); filename != "" {
		c.Hints.Filename = filename
	}

	// Validation configuration
	if minLen := os.Getenv("TF_VALIDATION_TITLE_MIN"); minLen != "" {
		if n, err := strconv.Atoi(minLen); err == nil {
			c.Validation.TitleMinLength = n
		}
	}
	if maxLen := os.Getenv("TF_VALIDATION_TITLE_MAX"); maxLen != "" {
		if n, err := strconv.Atoi(maxLen); err == nil {
			c.Validation.TitleMaxLength = n
		}
	}

	// Display configuration
	if format := os.Getenv("TF_DISPLAY_TIME_FORMAT"); format != "" {
		c.Display.TimeFormat = format
	}
	if format := os.Getenv("TF_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}

	// Application configuration
	if timeout := os.Getenv("TF_APP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Application.Timeout = d
		}
	}
	if verbose := os.Getenv("TF_APP_VERBOSE"); verbose != "" {
		if b, err := strconv.ParseBool(verbose); err == nil {
			c.Application.Verbose = b
		}
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate store configuration
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return &ConfigError{Field: "store.postgres_dsn", Message: "postgres backend requires a DSN"}
		}
	default:
		return &ConfigError{Field: "store.backend", Message: "backend must be one of memory, sqlite, postgres"}
	}
	if c.Store.Dir == "" {
		return &ConfigError{Field: "store.dir", Message: "store directory cannot be empty"}
	}
	if c.Store.Filename == "" {
		return &ConfigError{Field: "store.filename", Message: "store filename cannot be empty"}
	}
	if c.Store.Timeout <= 0 {
		return &ConfigError{Field: "store.timeout", Message: "store timeout must be positive"}
	}
	if c.Store.Latency < 0 {
		return &ConfigError{Field: "store.latency", Message: "simulated latency cannot be negative"}
	}

	// Validate timer configuration
	if c.Timer.TickInterval <= 0 {
		return &ConfigError{Field: "timer.tick_interval", Message: "tick interval must be positive"}
	}
	if c.Timer.RefreshInterval < c.Timer.TickInterval {
		return &ConfigError{Field: "timer.refresh_interval", Message: "refresh interval must not be shorter than the tick interval"}
	}
	if c.Timer.ResumeAfterStop != ResumeAllow && c.Timer.ResumeAfterStop != ResumeReject {
		return &ConfigError{Field: "timer.resume_after_stop", Message: "policy must be allow or reject"}
	}

	// Validate hints configuration
	if c.Hints.Enabled && c.Hints.Filename == "" {
		return &ConfigError{Field: "hints.filename", Message: "hints filename cannot be empty"}
	}

	// Validate validation configuration
	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be greater than minimum length"}
	}

	// Validate display configuration
	if c.Display.TimeFormat == "" {
		return &ConfigError{Field: "display.time_format", Message: "time format cannot be empty"}
	}
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
