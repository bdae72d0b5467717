// Package config loads the optional TOML configuration file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Psychloor/TimeTracker/internal/logger"
)

// Config is the top-level TOML structure.
//
//	interval = "200ms"
//
//	[log]
//	level = "info"
//	file = "/var/log/timetracker.log"
//
//	[metrics]
//	enabled = true
//	listen = ":9173"
//
//	[server]
//	enabled = true
//	listen = "127.0.0.1:8077"
//	base_path = "/api"
//
//	[history]
//	enabled = true
//	path = "~/.local/share/timetracker/history.db"
type Config struct {
	Interval time.Duration `mapstructure:"interval"`
	Log      logger.Config `mapstructure:"log"`
	Metrics  Metrics       `mapstructure:"metrics"`
	Server   Server        `mapstructure:"server"`
	History  History       `mapstructure:"history"`
}

type Metrics struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type Server struct {
	Enabled  bool   `mapstructure:"enabled"`
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
}

type History struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Interval: 200 * time.Millisecond,
		Metrics:  Metrics{Listen: ":9173"},
		Server:   Server{Listen: "127.0.0.1:8077"},
		History:  History{Path: "timetracker.db"},
	}
}

// Load reads a TOML config from path and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyDefaults(c)
	return c, nil
}

func applyDefaults(c *Config) {
	def := Default()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = def.Metrics.Listen
	}
	if c.Server.Listen == "" {
		c.Server.Listen = def.Server.Listen
	}
	if c.History.Path == "" {
		c.History.Path = def.History.Path
	}
}
