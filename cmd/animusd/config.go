package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/danmuck/animus/internal/logging"
)

type serviceConfig struct {
	Name          string
	Listen        string
	SaveFile      string
	MetricsListen string
	AdminToken    string
	ReadBuffer    int
	LogLevel      zerolog.Level
	HasLogLevel   bool
}

type fileConfig struct {
	Name          string `toml:"name"`
	Listen        string `toml:"listen"`
	SaveFile      string `toml:"save_file"`
	MetricsListen string `toml:"metrics_listen"`
	AdminToken    string `toml:"admin_token"`
	ReadBuffer    int    `toml:"read_buffer"`
	LogLevel      string `toml:"log_level"`
}

func defaultServiceConfig() serviceConfig {
	return serviceConfig{
		Name:     "animus.local",
		Listen:   "0.0.0.0:4048",
		SaveFile: "network.toml",
	}
}

func loadServiceConfig(path string) (serviceConfig, error) {
	cfg := defaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serviceConfig{}, fmt.Errorf("load animusd config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return serviceConfig{}, fmt.Errorf("load animusd config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("name") {
		if v := strings.TrimSpace(raw.Name); v != "" {
			cfg.Name = v
		}
	}
	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("save_file") {
		cfg.SaveFile = strings.TrimSpace(raw.SaveFile)
	}
	if meta.IsDefined("metrics_listen") {
		cfg.MetricsListen = strings.TrimSpace(raw.MetricsListen)
	}
	if meta.IsDefined("admin_token") {
		cfg.AdminToken = strings.TrimSpace(raw.AdminToken)
	}
	if meta.IsDefined("read_buffer") {
		if raw.ReadBuffer <= 0 {
			return serviceConfig{}, fmt.Errorf("parse read_buffer: must be positive, got %d", raw.ReadBuffer)
		}
		cfg.ReadBuffer = raw.ReadBuffer
	}
	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return serviceConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
		cfg.HasLogLevel = true
	}

	if cfg.Listen == "" {
		return serviceConfig{}, fmt.Errorf("load animusd config: listen is required")
	}
	return cfg, nil
}
