package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	DataDir       string        `env:"DATA_DIR" envDefault:"data"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"amiseo-dashboard-secret"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	WatchFiles    bool          `env:"WATCH_FILES" envDefault:"true"`
	ReadTimeout   time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) ClientsPath() string { return filepath.Join(c.DataDir, "clients.json") }
func (c Config) UsersPath() string   { return filepath.Join(c.DataDir, "users.json") }

func (c Config) SlogLevel() slog.Level {
	if c.LogLevel == "debug" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
