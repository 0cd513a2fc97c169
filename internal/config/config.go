// Package config manages application configuration from default values,
// an optional config.yaml file, and FACTORY_* environment variables.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultLogDir        = "logs"
	DefaultLogMaxSizeMB  = 5
	DefaultLogMaxBackups = 5

	DefaultDBPath          = "data/bot_factory.db"
	DefaultDBMaxOpenConns  = 1
	DefaultDBMaxIdleConns  = 1
	DefaultConnMaxLifetime = 5 * time.Minute

	DefaultMaintenanceInterval = 24 * time.Hour
)

// Config defines the application configuration for the bot factory state
// store and its logging context.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls the named logging channels. Each channel writes to a
// size-rotated file under Dir and echoes to the console.
type LogConfig struct {
	Level      string `mapstructure:"level"       validate:"oneof=debug info warn error"`
	Dir        string `mapstructure:"dir"         validate:"required"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	Console    bool   `mapstructure:"console"`
}

// DatabaseConfig controls the SQLite store location and pool settings.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"              validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=1s"`
}

// SchedulerConfig controls the periodic database maintenance job.
type SchedulerConfig struct {
	MaintenanceEnabled  bool          `mapstructure:"maintenance_enabled"`
	MaintenanceInterval time.Duration `mapstructure:"maintenance_interval" validate:"min=1m"`
}

// Validate checks the complete configuration.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
