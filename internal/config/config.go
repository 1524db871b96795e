// Package config holds the settings shared by the lemmagen server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl"
)

// Config is decoded from an HCL file on top of Default.
type Config struct {
	// ModelsDir is the directory holding <lang>.bin model files.
	ModelsDir string `hcl:"models_dir"`

	// Addr is the listen address of the HTTP server.
	Addr string `hcl:"addr"`

	// CacheSize is the number of models kept loaded at once.
	CacheSize int `hcl:"cache_size"`

	LogLevel string `hcl:"log_level"`
	LogJSON  bool   `hcl:"log_json"`

	// AllowedOrigins lists the CORS origins allowed to call the API. Empty
	// allows every origin. Must stay nil in Default: hcl appends decoded lists.
	AllowedOrigins []string `hcl:"allowed_origins"`

	// MaxBatch caps the number of words in one batch request.
	MaxBatch int `hcl:"max_batch"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ModelsDir: "models",
		Addr:      ":8080",
		CacheSize: 8,
		LogLevel:  "info",
		MaxBatch:  1000,
	}
}

// Parse decodes HCL source over the defaults and validates the result.
func Parse(src []byte) (Config, error) {
	cfg := Default()
	if err := hcl.Unmarshal(src, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseFile reads and parses the config file at path.
func ParseFile(path string) (Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(bs)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var merr *multierror.Error
	if c.ModelsDir == "" {
		merr = multierror.Append(merr, errors.New("models_dir must be set"))
	}
	if c.Addr == "" {
		merr = multierror.Append(merr, errors.New("addr must be set"))
	}
	if c.CacheSize < 1 {
		merr = multierror.Append(merr, fmt.Errorf("cache_size must be positive, got %d", c.CacheSize))
	}
	if c.MaxBatch < 1 {
		merr = multierror.Append(merr, fmt.Errorf("max_batch must be positive, got %d", c.MaxBatch))
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		merr = multierror.Append(merr, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	return merr.ErrorOrNil()
}
