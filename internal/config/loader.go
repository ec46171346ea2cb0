package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	filePath string
}

// NewLoader creates a new configuration loader. The config file location
// comes from TF_CONFIG, falling back to DefaultConfigPath.
func NewLoader() *Loader {
	path := os.Getenv("TF_CONFIG")
	if path == "" {
		path = DefaultConfigPath()
	}
	return NewLoaderWithFile(path)
}

// NewLoaderWithFile creates a loader that reads the given YAML config file.
// A missing file is not an error.
func NewLoaderWithFile(path string) *Loader {
	return &Loader{
		config:   NewConfig(),
		filePath: path,
	}
}

// DefaultConfigPath returns ~/.config/taskflow/config.yaml
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "taskflow", "config.yaml")
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file, if present
// 3. Override with environment variables
// 4. Override with command line flags (handled by cobra)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.Apply(config)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// loadFile reads the YAML config file with viper. Only keys present in the
// file override the defaults.
func (l *Loader) loadFile() error {
	if l.filePath == "" {
		return nil
	}
	if _, err := os.Stat(l.filePath); os.IsNotExist(err) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(l.filePath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", l.filePath, err)
	}

	c := l.config
	setString(v, "store.backend", &c.Store.Backend)
	setString(v, "store.dir", &c.Store.Dir)
	setString(v, "store.filename", &c.Store.Filename)
	setString(v, "store.postgres_dsn", &c.Store.PostgresDSN)
	setDuration(v, "store.timeout", &c.Store.Timeout)
	setDuration(v, "store.latency", &c.Store.Latency)

	setDuration(v, "timer.tick_interval", &c.Timer.TickInterval)
	setDuration(v, "timer.refresh_interval", &c.Timer.RefreshInterval)
	setString(v, "timer.resume_after_stop", &c.Timer.ResumeAfterStop)

	if v.IsSet("hints.enabled") {
		c.Hints.Enabled = v.GetBool("hints.enabled")
	}
	setString(v, "hints.filename", &c.Hints.Filename)

	if v.IsSet("validation.title_min_length") {
		c.Validation.TitleMinLength = v.GetInt("validation.title_min_length")
	}
	if v.IsSet("validation.title_max_length") {
		c.Validation.TitleMaxLength = v.GetInt("validation.title_max_length")
	}

	setString(v, "display.time_format", &c.Display.TimeFormat)
	setString(v, "display.date_format", &c.Display.DateFormat)

	setDuration(v, "application.timeout", &c.Application.Timeout)
	if v.IsSet("application.verbose") {
		c.Application.Verbose = v.GetBool("application.verbose")
	}

	return nil
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setDuration(v *viper.Viper, key string, dst *time.Duration) {
	if v.IsSet(key) {
		*dst = v.GetDuration(key)
	}
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Store overrides
	Backend     *string
	StoreDir    *string
	PostgresDSN *string
	Timeout     *time.Duration

	// Timer overrides
	ResumeAfterStop *string

	// Hints overrides
	HintsEnabled *bool

	// Application overrides
	Verbose *bool
}

// Apply applies command line overrides to the configuration
func (o *ConfigOverrides) Apply(config *Config) {
	if o.Backend != nil {
		config.Store.Backend = *o.Backend
	}
	if o.StoreDir != nil {
		config.Store.Dir = *o.StoreDir
	}
	if o.PostgresDSN != nil {
		config.Store.PostgresDSN = *o.PostgresDSN
	}
	if o.Timeout != nil {
		config.Store.Timeout = *o.Timeout
	}
	if o.ResumeAfterStop != nil {
		config.Timer.ResumeAfterStop = *o.ResumeAfterStop
	}
	if o.HintsEnabled != nil {
		config.Hints.Enabled = *o.HintsEnabled
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
}
