// Package models defines data structures for configuration, problem data and messages.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModel       = "gemini-1.5-flash-latest"
	DefaultEndpoint    = "https://generativelanguage.googleapis.com"
	DefaultSettleDelay = 150 * time.Millisecond
	DefaultListenAddr  = "127.0.0.1:8787"
	DefaultDBName      = "cp-hints.db"
	DefaultCacheTTL    = time.Hour
)

// Config holds runtime configuration. Values come from an optional YAML
// file; CLI flags override them.
type Config struct {
	Model          string        `yaml:"model"`
	Endpoint       string        `yaml:"endpoint"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 means transport default
	SettleDelay    time.Duration `yaml:"settle_delay"`
	DBPath         string        `yaml:"db_path"`
	ListenAddr     string        `yaml:"listen_addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	CacheDir       string        `yaml:"cache_dir"` // "" means next to the database
	CacheTTL       time.Duration `yaml:"cache_ttl"` // 0 disables the page cache
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Model:       DefaultModel,
		Endpoint:    DefaultEndpoint,
		SettleDelay: DefaultSettleDelay,
		ListenAddr:  DefaultListenAddr,
		CacheTTL:    DefaultCacheTTL,
		AllowedOrigins: []string{
			"chrome-extension://*",
			"https://leetcode.com",
			"https://codeforces.com",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	return cfg, nil
}
