package pagerip

import (
	"github.com/hazyhaar/pagerip/internal/config"
)

// Config is the top-level pagerip configuration. Re-exported from internal.
type Config = config.Config

// HTTPConfig controls how the page and its assets are fetched.
type HTTPConfig = config.HTTPConfig

// OutputConfig controls where the archived tree is written.
type OutputConfig = config.OutputConfig

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Defaults()
	return cfg
}
