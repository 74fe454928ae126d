package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Listen   string         `yaml:"listen" json:"listen"`
	DataDir  string         `yaml:"data_dir" json:"data_dir"`
	Storage  StorageConfig  `yaml:"storage" json:"storage"`
	Week     WeekConfig     `yaml:"week" json:"week"`
	Advisory AdvisoryConfig `yaml:"advisory" json:"advisory"`
}

type StorageConfig struct {
	// Driver selects the key-value backend: "file" (default), "sqlite"
	// or "memory".
	Driver string `yaml:"driver" json:"driver"`
}

type WeekConfig struct {
	// AnchorWeekday is the weekday a tracking week starts on.
	AnchorWeekday string `yaml:"anchor_weekday" json:"anchor_weekday"`
}

type AdvisoryConfig struct {
	Endpoint       string `yaml:"endpoint" json:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Anchor resolves the configured anchor weekday, defaulting to Saturday.
func (w WeekConfig) Anchor() time.Weekday {
	if d, ok := weekdays[strings.ToLower(strings.TrimSpace(w.AnchorWeekday))]; ok {
		return d
	}
	return time.Saturday
}

func (a AdvisoryConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}
	if c.Week.AnchorWeekday != "" {
		if _, ok := weekdays[strings.ToLower(strings.TrimSpace(c.Week.AnchorWeekday))]; !ok {
			return fmt.Errorf("unknown anchor weekday: %q", c.Week.AnchorWeekday)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadOrDefault loads path when it exists and falls back to defaults
// when it does not.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			var r Config
			r.ApplyDefaults()
			return &r, nil
		}
		return nil, err
	}
	return cfg, nil
}
