// Package config loads d0opt configuration from the environment.
//
// Values resolve OS environment first, then a .env file in the working
// directory, then struct defaults. Loading validates the result and fails
// with a *ConfigError on any parse or validation problem.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full client configuration. It is read once at startup.
type Config struct {
	// Prediction service
	Endpoint        string        `envconfig:"D0OPT_ENDPOINT" default:"http://127.0.0.1:8000" validate:"required,url"`
	Schema          string        `envconfig:"D0OPT_SCHEMA" default:"v2" validate:"oneof=v1 v2"`
	Timeout         time.Duration `envconfig:"D0OPT_TIMEOUT" default:"15s" validate:"gt=0"`
	BreakerFailures uint32        `envconfig:"D0OPT_BREAKER_FAILURES" default:"5" validate:"gte=1"`

	// Sensitivity map
	TargetBrightness float64 `envconfig:"D0OPT_TARGET_BRIGHTNESS" default:"70" validate:"gt=0,lte=100"`
	SweepStep        float64 `envconfig:"D0OPT_SWEEP_STEP" default:"0.5" validate:"gte=0.1,lte=10"`
	SweepSteps       int     `envconfig:"D0OPT_SWEEP_STEPS" default:"4" validate:"gte=0,lte=20"`

	// Local history
	DBPath     string `envconfig:"D0OPT_DB"`
	History    bool   `envconfig:"D0OPT_HISTORY" default:"true"`
	HistoryMax int    `envconfig:"D0OPT_HISTORY_MAX" default:"500" validate:"gte=0"`

	// Logging
	LogCalls bool   `envconfig:"D0OPT_LOG_CALLS" default:"false"`
	LogLevel string `envconfig:"D0OPT_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrParsing indicates an environment value could not be parsed into its field type.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrHomeDir indicates the default database path could not be resolved.
	ErrHomeDir ConfigErrorType = "HOME_DIR"
)

// ConfigError is returned by Load.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Default returns the configuration used when no environment is set. DBPath
// is left empty; Load fills it from the home directory.
func Default() Config {
	return Config{
		Endpoint:         "http://127.0.0.1:8000",
		Schema:           string(domain.SchemaV2),
		Timeout:          15 * time.Second,
		BreakerFailures:  5,
		TargetBrightness: sensitivity.DefaultTargetBrightness,
		SweepStep:        0.5,
		SweepSteps:       4,
		History:          true,
		HistoryMax:       500,
		LogLevel:         "info",
	}
}

// Load reads and validates configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, &ConfigError{Type: ErrHomeDir, Message: "finding home directory", Err: err}
		}
		cfg.DBPath = filepath.Join(home, ".d0opt", "d0opt.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct rules.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	return nil
}

// SchemaVersion returns the configured wire schema.
func (c Config) SchemaVersion() domain.SchemaVersion {
	return domain.SchemaVersion(c.Schema)
}

// Sweep returns the sensitivity sweep parameters.
func (c Config) Sweep() sensitivity.SweepConfig {
	return sensitivity.SweepConfig{Step: c.SweepStep, Steps: c.SweepSteps}
}

// SlogLevel maps LogLevel to a slog level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
