package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional blendinspect configuration file
// ($XDG_CONFIG_HOME/blend/config.yaml). Pointer fields distinguish "not set" from zero.
type Config struct {
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
	JSON      *bool    `yaml:"json"`
	ListLimit *int     `yaml:"list_limit"`
	HeapBase  *int64   `yaml:"heap_base"`
	OffHeap   []string `yaml:"off_heap"`
}

func configPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "blend", "config.yaml")
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "blend", "config.yaml")
}

// loadConfig reads the config file at path. A missing file yields a zero Config.
func loadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// applyConfig copies config values into s for every flag not set on the command line.
func applyConfig(cmd *cli.Command, cfg Config, s *settings) {
	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		s.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		s.logFormat = cfg.LogFormat
	}
	if cfg.JSON != nil && !cmd.IsSet("json") {
		s.json = *cfg.JSON
	}
	if cfg.ListLimit != nil && !cmd.IsSet("list-limit") {
		s.listLimit = *cfg.ListLimit
	}
	if cfg.HeapBase != nil && !cmd.IsSet("heap-base") {
		s.heapBase = *cfg.HeapBase
	}
	if len(cfg.OffHeap) > 0 && !cmd.IsSet("off-heap") {
		s.offHeap = cfg.OffHeap
	}
}
