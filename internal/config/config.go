package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the generator runtime configuration. All values come from the
// environment (optionally overloaded from a .env file); the struct is built
// once by Load and treated as read-only afterwards.
type Config struct {
	// Concurrency selects the parallel executor when enabled; the default is
	// a fully sequential run producing identical artifacts.
	Concurrency bool

	// NumberOfWorkers sizes the worker pool of the parallel executor.
	NumberOfWorkers int

	// ProgressBarOff disables the console progress bar. PROGRESS_BAR is an
	// inverted toggle: a truthy value switches the bar off.
	ProgressBarOff bool

	// WorkingDir is the directory holding the five input relations.
	WorkingDir string

	// StaticDir is the artifact output directory; defaults to
	// WorkingDir/static when unset.
	StaticDir string

	Debug     bool
	SentryDSN string
}

// Load reads configuration from environment variables, applies defaults and
// validates the result. envPath optionally names a dotenv file to overload
// before reading; an absent file is not an error.
func Load(envPath string) (*Config, error) {
	v := configureViper(envPath)

	cfg := &Config{
		Concurrency:     truthy(v.GetString("concurrency")),
		NumberOfWorkers: v.GetInt("number_of_workers"),
		ProgressBarOff:  truthy(v.GetString("progress_bar")),
		WorkingDir:      v.GetString("working_dir"),
		StaticDir:       v.GetString("static_dir"),
		Debug:           truthy(v.GetString("debug")),
		SentryDSN:       v.GetString("sentry_dsn"),
	}

	if cfg.StaticDir == "" {
		cfg.StaticDir = filepath.Join(cfg.WorkingDir, "static")
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.WorkingDir == "" {
		return errors.New("WORKING_DIR must not be empty")
	}
	if c.NumberOfWorkers < 1 {
		return fmt.Errorf("NUMBER_OF_WORKERS must be positive, got %d", c.NumberOfWorkers)
	}
	return nil
}

// RelationPath returns the full path of one input relation file.
func (c *Config) RelationPath(name string) string {
	return filepath.Join(c.WorkingDir, name)
}

// configureViper returns a viper instance with defaults and environment
// variables bound
func configureViper(envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	v.SetDefault("concurrency", "F")
	v.SetDefault("progress_bar", "F")
	v.SetDefault("number_of_workers", runtime.NumCPU())
	v.SetDefault("working_dir", "./var/")
	v.SetDefault("static_dir", "")
	v.SetDefault("debug", "F")
	v.SetDefault("sentry_dsn", "")

	v.AutomaticEnv()
	bindAllEnvVars(v)

	return v
}

// bindAllEnvVars explicitly binds all recognized environment variables so
// viper resolves them even without a config file
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"concurrency",
		"number_of_workers",
		"progress_bar",
		"working_dir",
		"static_dir",
		"debug",
		"sentry_dsn",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv overlays environment variables from a dotenv file. A missing file
// is fine; explicit environment variables are never overridden.
func loadEnv(envPath string) {
	if envPath == "" {
		envPath = ".env"
	}
	_ = godotenv.Load(envPath)
}

// truthy reports whether a toggle value is enabled: any value whose first
// character is T, Y or 1, case-insensitive.
func truthy(s string) bool {
	if s == "" {
		return false
	}
	switch unicode.ToUpper(rune(s[0])) {
	case 'T', 'Y', '1':
		return true
	}
	return false
}
