// Package config loads the lienzo configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lienzo/pkg/validate"
)

// Environment overrides.
const (
	EnvLogLevel     = "LIENZO_LOG_LEVEL"
	EnvStoreBackend = "LIENZO_STORE_BACKEND"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "lienzo.yaml"

// Store selects and configures the persistence backend.
type Store struct {
	Backend     string `yaml:"backend" json:"backend"`
	Dir         string `yaml:"dir" json:"dir"`
	RedisAddr   string `yaml:"redis_addr" json:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix" json:"redis_prefix"`
	PostgresDSN string `yaml:"postgres_dsn" json:"postgres_dsn"`

	// MaskMetaKeys are regular expressions; metadata values under matching
	// keys are masked before documents are stored.
	MaskMetaKeys []string `yaml:"mask_meta_keys" json:"mask_meta_keys"`
}

// Config represents the structure of lienzo.yaml.
type Config struct {
	LogLevel          string `yaml:"log_level" json:"log_level"`
	Strict            bool   `yaml:"strict" json:"strict"`
	PassthroughPolicy string `yaml:"passthrough_policy" json:"passthrough_policy"`
	MaxCycles         int    `yaml:"max_cycles" json:"max_cycles"`
	Store             Store  `yaml:"store" json:"store"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:          "info",
		PassthroughPolicy: string(validate.PassthroughWarn),
		MaxCycles:         validate.DefaultMaxCycles,
		Store: Store{
			Backend:     BackendMemory,
			Dir:         filepath.Join(".lienzo", "store"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "lienzo:",
		},
	}
}

// Load reads a configuration file (YAML or JSON) over the defaults and
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvStoreBackend); v != "" {
		cfg.Store.Backend = v
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch validate.PassthroughPolicy(c.PassthroughPolicy) {
	case validate.PassthroughWarn, validate.PassthroughReject:
	default:
		return fmt.Errorf("unknown passthrough_policy %q", c.PassthroughPolicy)
	}
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.MaxCycles < 0 {
		return fmt.Errorf("max_cycles must not be negative")
	}
	return nil
}

// ValidateOptions translates the configuration into validator options.
func (c Config) ValidateOptions() []validate.Option {
	opts := []validate.Option{
		validate.WithPassthroughPolicy(validate.PassthroughPolicy(c.PassthroughPolicy)),
	}
	if c.MaxCycles > 0 {
		opts = append(opts, validate.WithMaxCycles(c.MaxCycles))
	}
	if c.Strict {
		opts = append(opts, validate.Strict())
	}
	return opts
}
