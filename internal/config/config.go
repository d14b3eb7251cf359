// Package config loads duedeck settings from .env, duedeck.yaml and
// DUEDECK_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/balkashynov/duedeck/internal/db"
	"github.com/balkashynov/duedeck/internal/logger"
	"github.com/balkashynov/duedeck/internal/scheduler"
)

// Config is the full application configuration
type Config struct {
	Store  db.Config
	Log    logger.Config
	Server ServerConfig
	Tasks  TasksConfig
	Purge  PurgeConfig
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string
}

// TasksConfig holds task creation rules
type TasksConfig struct {
	RequireAssignee bool
}

// PurgeConfig schedules the background trash purge in serve mode
type PurgeConfig struct {
	Cron string
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads configuration. configFile may be empty, in which case
// duedeck.yaml is looked up in $HOME/.duedeck and the working directory.
// A missing config file is not an error; defaults apply.
func Load(configFile string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DUEDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("duedeck")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".duedeck"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{
		Store: db.Config{
			Driver: v.GetString("store.driver"),
			Path:   v.GetString("store.path"),
			DSN:    v.GetString("store.dsn"),
			Debug:  v.GetBool("store.debug"),
		},
		Log: logger.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			FilePath:   v.GetString("log.file"),
			MaxSize:    v.GetInt("log.max_size"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAge:     v.GetInt("log.max_age"),
			Compress:   v.GetBool("log.compress"),
		},
		Server: ServerConfig{
			Addr: v.GetString("server.addr"),
		},
		Tasks: TasksConfig{
			RequireAssignee: v.GetBool("tasks.require_assignee"),
		},
		Purge: PurgeConfig{
			Cron: v.GetString("purge.cron"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	logDefaults := logger.DefaultConfig()

	v.SetDefault("store.driver", db.DriverSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.debug", false)
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.Output)
	v.SetDefault("log.file", logDefaults.FilePath)
	v.SetDefault("log.max_size", logDefaults.MaxSize)
	v.SetDefault("log.max_backups", logDefaults.MaxBackups)
	v.SetDefault("log.max_age", logDefaults.MaxAge)
	v.SetDefault("log.compress", logDefaults.Compress)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("tasks.require_assignee", true)
	v.SetDefault("purge.cron", "0 * * * *")
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, c.Store.Driver)
	}

	if !validLevels[c.Log.Level] {
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if (c.Log.Output == "file" || c.Log.Output == "both") && c.Log.FilePath == "" {
		return fmt.Errorf("log.file is required when log.output is %q", c.Log.Output)
	}
	if strings.TrimSpace(c.Purge.Cron) == "" {
		return fmt.Errorf("purge.cron cannot be empty")
	}
	if err := scheduler.ValidateCron(c.Purge.Cron); err != nil {
		return fmt.Errorf("purge.cron: %w", err)
	}
	return nil
}
