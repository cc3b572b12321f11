package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the task manager.
type Config struct {
	DatabaseURL       string        `env:"DATABASE_URL" env-default:"task_manager.db"`
	LogLevel          string        `env:"LOG_LEVEL" env-default:"INFO"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" env-default:"60s"`
	ApproachingWindow time.Duration `env:"APPROACHING_WINDOW" env-default:"24h"`
	ApproachingLead   time.Duration `env:"APPROACHING_MIN_LEAD" env-default:"1h"`
	AuthSecret        string        `env:"AUTH_SECRET"`
	AuthToken         string        `env:"AUTH_TOKEN"`
	TelegramToken     string        `env:"TELEGRAM_TOKEN"`
	TelegramChatID    int64         `env:"TELEGRAM_CHAT_ID"`
	DigestTime        string        `env:"DIGEST_TIME" env-default:"08:00"`
	Timezone          string        `env:"TIMEZONE"`
}

// Load reads an optional .env file, then configuration from environment variables.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(strings.TrimSpace(cfg.LogLevel))

	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return cfg, fmt.Errorf("AUTH_SECRET is required")
	}
	if cfg.SweepInterval <= 0 {
		return cfg, fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if cfg.ApproachingLead > cfg.ApproachingWindow {
		return cfg, fmt.Errorf("APPROACHING_MIN_LEAD must not exceed APPROACHING_WINDOW")
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

// Location resolves Timezone, defaulting to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
