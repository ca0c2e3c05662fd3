// Package config loads the cache layout for the hotcache process.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"hotcache/internal/cache"
)

// Standard cache names used by the engine.
const (
	RowCache      = "rows"
	MetadataCache = "metadata"
	IndexCache    = "index"
)

var (
	ErrNegativeCountLimit   = errors.New("count_limit must not be negative")
	ErrNegativeCapacityHint = errors.New("capacity_hint must not be negative")
	ErrDuplicateCache       = errors.New("duplicate cache name")
	ErrEmptyCacheName       = errors.New("cache name must not be empty")
)

// CacheConfig describes one named cache.
type CacheConfig struct {
	Name         string `yaml:"name"`
	CountLimit   int    `yaml:"count_limit"`
	CapacityHint int    `yaml:"capacity_hint"`
	ThreadSafe   bool   `yaml:"thread_safe"`
}

// Options converts the entry into the cache package's Config.
func (c CacheConfig) Options() cache.Config {
	return cache.Config{CapacityHint: c.CapacityHint, CountLimit: c.CountLimit}
}

// Config is the whole process configuration.
type Config struct {
	Caches []CacheConfig `yaml:"caches"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Metrics struct {
		Addr      string `yaml:"addr"`
		Namespace string `yaml:"namespace"`
	} `yaml:"metrics"`
}

// Default returns the row, metadata and index caches at the default count
// limit. Only the row cache is shared between goroutines.
func Default() *Config {
	cfg := &Config{
		Caches: []CacheConfig{
			{Name: RowCache, CountLimit: cache.DefaultCountLimit, ThreadSafe: true},
			{Name: MetadataCache, CountLimit: cache.DefaultCountLimit},
			{Name: IndexCache, CountLimit: cache.DefaultCountLimit},
		},
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Metrics.Namespace = "hotcache"
	return cfg
}

// Load reads a YAML file on top of Default and validates the result.
// A caches list in the file replaces the default list entirely.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	seen := make(map[string]struct{}, len(c.Caches))
	for _, cc := range c.Caches {
		if cc.Name == "" {
			errs = append(errs, ErrEmptyCacheName)
			continue
		}
		if _, dup := seen[cc.Name]; dup {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateCache, cc.Name))
		}
		seen[cc.Name] = struct{}{}
		if cc.CountLimit < 0 {
			errs = append(errs, fmt.Errorf("cache %q: %w", cc.Name, ErrNegativeCountLimit))
		}
		if cc.CapacityHint < 0 {
			errs = append(errs, fmt.Errorf("cache %q: %w", cc.Name, ErrNegativeCapacityHint))
		}
	}
	return errors.Join(errs...)
}

// Cache returns the entry named name.
func (c *Config) Cache(name string) (CacheConfig, bool) {
	for _, cc := range c.Caches {
		if cc.Name == name {
			return cc, true
		}
	}
	return CacheConfig{}, false
}
