package main

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// serveConfig is the file/env/flag configuration for the serve command.
// Precedence, lowest to highest: defaults, config file, environment,
// flags.
type serveConfig struct {
	Transport         string `yaml:"transport"`
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Path              string `yaml:"path"`
	URL               string `yaml:"url"`
	ReconnectInterval int    `yaml:"reconnect_interval"` // milliseconds

	Design struct {
		Width  uint32 `yaml:"width"`
		Height uint32 `yaml:"height"`
	} `yaml:"design"`

	ScriptsDir string `yaml:"scripts_dir"`
	AssetsDir  string `yaml:"assets_dir"`
	AdminAddr  string `yaml:"admin_addr"`

	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// defaultServeConfig mirrors the documented defaults.
func defaultServeConfig() serveConfig {
	cfg := serveConfig{
		Transport:         "tcp_server",
		Port:              4000,
		ReconnectInterval: 1000,
		ScriptsDir:        "scene",
		LogLevel:          "info",
	}
	cfg.Design.Width = 1280
	cfg.Design.Height = 720
	return cfg
}

// loadConfigFile merges a YAML config file into cfg.
func loadConfigFile(cfg *serveConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv merges DRAWBRIDGE_* environment variables (including ones
// loaded from a .env file) into cfg.
func applyEnv(cfg *serveConfig) {
	if v := os.Getenv("DRAWBRIDGE_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("DRAWBRIDGE_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("DRAWBRIDGE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("DRAWBRIDGE_ADMIN_ADDR"); v != "" {
		cfg.AdminAddr = v
	}
	if v := os.Getenv("DRAWBRIDGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
