package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Log LogConfig
	App AppConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Unit            string        // metric, imperial, standard
	TimeFormat      int           // 12 or 24
	RequestTimeout  time.Duration // per resolve+refresh sequence
	RefreshInterval time.Duration // background refresh cadence
	CachePath       string        // sqlite file, empty disables caching
	CacheTTL        time.Duration
	PreferencesPath string
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	// Set config file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.weatherx")

	// Set defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("app.unit", "standard")
	viper.SetDefault("app.timeFormat", 24)
	viper.SetDefault("app.requestTimeout", "15s")
	viper.SetDefault("app.refreshInterval", "10m")
	viper.SetDefault("app.cachePath", "")
	viper.SetDefault("app.cacheTTL", "10m")
	viper.SetDefault("app.preferencesPath", defaultPreferencesPath())

	// Read from environment variables
	viper.SetEnvPrefix("WEATHERX")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.App.TimeFormat != 12 && cfg.App.TimeFormat != 24 {
		return nil, fmt.Errorf("app.timeFormat must be 12 or 24, got %d", cfg.App.TimeFormat)
	}

	return &cfg, nil
}

func defaultPreferencesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "preferences.yaml"
	}
	return home + "/.weatherx/preferences.yaml"
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Create handler options
	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
