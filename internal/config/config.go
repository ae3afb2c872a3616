package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values used when neither the file nor the environment sets them
const (
	DefaultAddr        = "127.0.0.1:8420"
	DefaultBaseURL     = "http://127.0.0.1:8420"
	DefaultDriver      = "sqlite"
	DefaultSyncTimeout = 10 * time.Second
	DefaultEventBuffer = 256
	DefaultLogLevel    = "info"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Client   ClientConfig   `yaml:"client"`
	Log      LogConfig      `yaml:"log"`
	Theme    Theme          `yaml:"theme"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the store. An empty DSN with the sqlite driver
// uses ~/.pasoboard/pasoboard.db.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// EventsConfig configures realtime fan-out. Without a Redis URL events stay
// inside the process.
type EventsConfig struct {
	RedisURL string `yaml:"redis_url"`
	Buffer   int    `yaml:"buffer"`
}

// ClientConfig is used by the CLI commands that talk to a running server
type ClientConfig struct {
	BaseURL     string        `yaml:"base_url"`
	UserID      int           `yaml:"user_id"`
	SyncTimeout time.Duration `yaml:"sync_timeout"`
}

// LogConfig selects level and destination
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads the config file from the user's config directory, loads a .env
// file from the working directory if present, then applies PASOBOARD_*
// environment overrides and defaults.
// A missing config file is not an error.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		slog.Debug("no config path, using defaults", "error", err)
		path = ""
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path
func LoadFrom(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "pasoboard", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "pasoboard", "config.yaml"), nil
}

// applyEnv overrides values from PASOBOARD_* variables
func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("PASOBOARD_ADDR", &c.Server.Addr)
	setString("PASOBOARD_DB_DRIVER", &c.Database.Driver)
	setString("PASOBOARD_DB_DSN", &c.Database.DSN)
	setString("PASOBOARD_REDIS_URL", &c.Events.RedisURL)
	setString("PASOBOARD_BASE_URL", &c.Client.BaseURL)
	setString("PASOBOARD_LOG_LEVEL", &c.Log.Level)
	setString("PASOBOARD_LOG_FILE", &c.Log.File)

	if v, ok := os.LookupEnv("PASOBOARD_USER_ID"); ok {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PASOBOARD_USER_ID: %w", err)
		}
		c.Client.UserID = id
	}
	if v, ok := os.LookupEnv("PASOBOARD_EVENT_BUFFER"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PASOBOARD_EVENT_BUFFER: %w", err)
		}
		c.Events.Buffer = n
	}
	if v, ok := os.LookupEnv("PASOBOARD_SYNC_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PASOBOARD_SYNC_TIMEOUT: %w", err)
		}
		c.Client.SyncTimeout = d
	}
	return nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDriver
	}
	if c.Events.Buffer <= 0 {
		c.Events.Buffer = DefaultEventBuffer
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = DefaultBaseURL
	}
	if c.Client.SyncTimeout <= 0 {
		c.Client.SyncTimeout = DefaultSyncTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Theme.ApplyDefaults()
}
