// CLAUDE:SUMMARY Defines pagerip config structs and parses YAML configuration files with defaults.
// Package config handles pagerip configuration from YAML files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pagerip configuration.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Output OutputConfig `yaml:"output"`
}

// HTTPConfig controls how the page and its assets are fetched.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`        // per-request timeout
	MaxAssetSize int64         `yaml:"max_asset_size"` // hard per-asset byte cap
	UserAgent    string        `yaml:"user_agent"`
}

// OutputConfig controls where the archived tree is written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.HTTP.Timeout <= 0 {
		c.HTTP.Timeout = 25 * time.Second
	}
	if c.HTTP.MaxAssetSize <= 0 {
		c.HTTP.MaxAssetSize = 50 << 20
	}
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = "Mozilla/5.0 (compatible; pagerip/1.0)"
	}
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Defaults()
	return &cfg, nil
}
