// Package config loads engine configuration from an optional YAML file with
// environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration.
type Config struct {
	// GameDir is the directory of Lua catalog files.
	GameDir string `yaml:"game_dir"`
	// SavePath is the file used by the file-backed save store.
	SavePath string `yaml:"save_path"`
	// RedisURL, when set, selects the Redis save store instead of the file
	// store (redis://host:port form).
	RedisURL string `yaml:"redis_url"`
	// Slot names the save slot; "default" when empty.
	Slot     string `yaml:"slot"`
	LogLevel string `yaml:"log_level"`
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), then applies CLICKCORE_* environment overrides and
// defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("CLICKCORE_GAME_DIR"); v != "" {
		cfg.GameDir = v
	}
	if v := os.Getenv("CLICKCORE_SAVE_PATH"); v != "" {
		cfg.SavePath = v
	}
	if v := os.Getenv("CLICKCORE_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("CLICKCORE_SLOT"); v != "" {
		cfg.Slot = v
	}
	if v := os.Getenv("CLICKCORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if cfg.SavePath == "" {
		home, _ := os.UserHomeDir()
		cfg.SavePath = filepath.Join(home, ".clickcore", "gamestate.json")
	}
	if cfg.Slot == "" {
		cfg.Slot = "default"
	}

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level, defaulting to
// Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
