package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xxxsen/common/logger"
	"gopkg.in/yaml.v3"
)

const (
	defaultBind      = ":5353"
	defaultCacheSize = 10000
	defaultTTL       = 60
)

// Config is the root runtime configuration.
type Config struct {
	Bind    string           `json:"bind" yaml:"bind"`
	TTL     uint32           `json:"ttl" yaml:"ttl"` // seconds, TTL of DNS TXT answers
	HTTP    HTTPConfig       `json:"http" yaml:"http"`
	Ruleset RulesetConfig    `json:"ruleset" yaml:"ruleset"`
	Log     logger.LogConfig `json:"log" yaml:"log"`
	Cache   CacheConfig      `json:"cache" yaml:"cache"`
	Pprof   PprofConfig      `json:"pprof" yaml:"pprof"`
}

type HTTPConfig struct {
	Bind string `json:"bind" yaml:"bind"`
}

// RulesetConfig describes where the public suffix rules come from. Source is
// a provider link ("file:///path?icann_only=true"); Inline holds rules given
// directly in the config and is used when Source is empty.
type RulesetConfig struct {
	Source         string      `json:"source" yaml:"source"`
	Inline         interface{} `json:"inline" yaml:"inline"`
	ReloadInterval int64       `json:"reload_interval" yaml:"reload_interval"` // seconds, 0 disables
	InitialBackoff int64       `json:"initial_backoff" yaml:"initial_backoff"` // seconds
	MaxBackoff     int64       `json:"max_backoff" yaml:"max_backoff"`         // seconds
}

type CacheConfig struct {
	Size int64 `json:"size" yaml:"size"`
}

type PprofConfig struct {
	Enable bool   `json:"enable" yaml:"enable"`
	Bind   string `json:"bind" yaml:"bind"`
}

// Load reads the configuration file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a yaml document and applies defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{
		TTL:   defaultTTL,
		Cache: CacheConfig{Size: defaultCacheSize},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Bind == "" {
		cfg.Bind = defaultBind
	}
	if cfg.Ruleset.Source == "" && cfg.Ruleset.Inline == nil {
		return nil, fmt.Errorf("ruleset source or inline rules required")
	}
	return cfg, nil
}
