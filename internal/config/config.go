package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/voyagen/tvgrab/internal/models"
)

var (
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
)

// Config holds grabber settings (fetching, diagnostics, optional backends).
type Config struct {
	UserAgent   string        `yaml:"user_agent" env:"TVGRAB_USER_AGENT"`
	Timeout     time.Duration `yaml:"timeout" env:"TVGRAB_TIMEOUT"`
	Concurrency int           `yaml:"concurrency" env:"TVGRAB_CONCURRENCY"`
	DebugFile   string        `yaml:"debug_file" env:"TVGRAB_DEBUG_FILE"`
	LockFile    string        `yaml:"lock_file" env:"TVGRAB_LOCK_FILE"`
	LogLevel    string        `yaml:"log_level" env:"TVGRAB_LOG_LEVEL"`
	// RedisURL enables a cross-host run lock when set.
	RedisURL string `yaml:"redis_url" env:"TVGRAB_REDIS_URL"`
	// HistoryDSN enables run history: a postgres:// URL or a SQLite file path.
	HistoryDSN string `yaml:"history_dsn" env:"TVGRAB_HISTORY_DSN"`

	Provider models.Provider `yaml:"-"`
}

// Load builds config from environment variables, after applying .env.local
// and .env from the working directory for keys that are not already set.
// Every setting is optional.
func Load() (*Config, error) {
	loadEnvFiles()
	c := defaults()
	c.UserAgent = envOr("TVGRAB_USER_AGENT", c.UserAgent)
	c.DebugFile = envOr("TVGRAB_DEBUG_FILE", c.DebugFile)
	c.LockFile = envOr("TVGRAB_LOCK_FILE", c.LockFile)
	c.LogLevel = envOr("TVGRAB_LOG_LEVEL", c.LogLevel)
	c.RedisURL = os.Getenv("TVGRAB_REDIS_URL")
	c.HistoryDSN = os.Getenv("TVGRAB_HISTORY_DSN")
	c.Provider.Charset = envOr("TVGRAB_CHARSET", c.Provider.Charset)
	if s := os.Getenv("TVGRAB_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			c.Timeout = d
		}
	}
	if s := os.Getenv("TVGRAB_CONCURRENCY"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			c.Concurrency = n
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func defaults() *Config {
	return &Config{
		UserAgent:   "tvgrab/1.0",
		Timeout:     30 * time.Second,
		Concurrency: 1,
		DebugFile:   "tvgrab.debug",
		LogLevel:    "info",
		Provider:    models.TVNyt,
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
