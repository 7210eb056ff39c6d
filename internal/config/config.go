// Package config loads the application configuration: where the settings
// document lives, logging, the HTTP server and processing history.
//
// Precedence, highest first: runtime overrides, environment (GOHOTFOLDER_*,
// optionally seeded from a .env file), config file, defaults.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// AppName names the config directory and the env prefix.
const AppName = "gohotfolder"

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "GOHOTFOLDER"

type Config struct {
	Settings SettingsConfig `mapstructure:"settings"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	History  HistoryConfig  `mapstructure:"history"`
}

type SettingsConfig struct {
	// Path of the settings document. A .yaml/.yml extension selects YAML.
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// JSON reports whether log output should be JSON lines.
func (l LoggingConfig) JSON() bool {
	return l.Format == "json"
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type HistoryConfig struct {
	Dir     string `mapstructure:"dir"`
	Enabled bool   `mapstructure:"enabled"`
}

// AppDir returns the per-user application directory, falling back to the
// working directory when the platform has no config dir.
func AppDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppName)
	}
	return "." + AppName
}
