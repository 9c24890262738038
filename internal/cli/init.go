// Package cli provides the startup wiring shared by the spendlog binary:
// env file loading, logger setup, and config validation.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"spendlog/internal/config"
	"spendlog/internal/log"
)

// SetupLogger initializes structured logging at the given level and
// installs the result as the process default.
func SetupLogger(level slog.Level) *log.Logger {
	logger := log.New(log.Config{Level: level, Component: log.ComponentApp})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// Bootstrap loads the environment, reads configuration, and sets up
// logging at the configured level. Exits the process when the
// configuration is invalid.
func Bootstrap() (*config.Config, *log.Logger) {
	LoadEnvFile()

	cfg := config.Load()
	logger := SetupLogger(cfg.SlogLevel())

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	return cfg, logger
}
