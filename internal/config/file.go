package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	UserAgent   string `yaml:"user_agent"`
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
	DebugFile   string `yaml:"debug_file"`
	LockFile    string `yaml:"lock_file"`
	LogLevel    string `yaml:"log_level"`
	RedisURL    string `yaml:"redis_url"`
	HistoryDSN  string `yaml:"history_dsn"`
	Provider    struct {
		SourceURL      string `yaml:"source_url"`
		ScheduleURL    string `yaml:"schedule_url"`
		CatalogURL     string `yaml:"catalog_url"`
		TimezoneOffset string `yaml:"timezone_offset"`
		Charset        string `yaml:"charset"`
	} `yaml:"provider"`
}

// LoadFromFile loads settings from a YAML file on top of Load's values.
// Keys missing from the file keep their environment or default value.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	c, err := Load()
	if err != nil {
		return nil, err
	}
	setString(&c.UserAgent, f.UserAgent)
	setString(&c.DebugFile, f.DebugFile)
	setString(&c.LockFile, f.LockFile)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.RedisURL, f.RedisURL)
	setString(&c.HistoryDSN, f.HistoryDSN)
	setString(&c.Provider.SourceURL, f.Provider.SourceURL)
	setString(&c.Provider.ScheduleURL, f.Provider.ScheduleURL)
	setString(&c.Provider.CatalogURL, f.Provider.CatalogURL)
	setString(&c.Provider.TimezoneOffset, f.Provider.TimezoneOffset)
	setString(&c.Provider.Charset, f.Provider.Charset)
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return nil, fmt.Errorf("timeout %q: %w", f.Timeout, err)
		}
		c.Timeout = d
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
