// Package config loads the objstore configuration file.
//
// The file may be YAML (.yaml, .yml) or TOML (.toml):
//
//	[log]
//	level = "debug"
//
//	[store]
//	provider = "spaces"
//	region   = "nyc3"
//	bucket   = "media"
//
// Credentials can be kept out of the file with OBJSTORE_ACCESS_KEY and
// OBJSTORE_SECRET_KEY, which override the file values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/koustreak/objstore/internal/errs"
	"github.com/koustreak/objstore/internal/filestore"
	"github.com/koustreak/objstore/internal/logger"
	"go.yaml.in/yaml/v3"
)

// Environment variables that override the store credentials.
const (
	EnvAccessKey = "OBJSTORE_ACCESS_KEY"
	EnvSecretKey = "OBJSTORE_SECRET_KEY"
)

// Config is the application configuration.
type Config struct {
	Log   logger.Config    `yaml:"log" toml:"log"`
	Store filestore.Config `yaml:"store" toml:"store"`
}

// DefaultConfig returns the configuration used when no file exists.
// The store still needs a root (or a bucket provider) before it can open.
func DefaultConfig() *Config {
	return &Config{
		Log:   *logger.DefaultConfig(),
		Store: *filestore.DefaultConfig(""),
	}
}

// Load reads the file at path. A missing file is not an error: the
// defaults, plus any credentials from the environment, are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("cannot access config file %q", path), err)
	}

	if err := decodeFile(path, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.Normalize()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	def := logger.DefaultConfig()
	if c.Log.Level == "" {
		c.Log.Level = def.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Format
	}
	if c.Log.TimeFormat == "" {
		c.Log.TimeFormat = def.TimeFormat
	}
	c.Store.ApplyDefaults()
}

// Normalize lowercases enumerations and trims store settings.
func (c *Config) Normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Store.Normalize()
}

// Validate checks the log settings and the store settings.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errs.New(errs.ErrKindInvalidConfig, "log level must be debug, info, warn, or error")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errs.New(errs.ErrKindInvalidConfig, "log format must be json or console")
	}
	return c.Store.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAccessKey); v != "" {
		c.Store.AccessKey = v
	}
	if v := os.Getenv(EnvSecretKey); v != "" {
		c.Store.SecretKey = v
	}
}

func decodeFile(path string, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("cannot read config file %q", path), err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("cannot parse config file %q", path), err)
		}
		return nil
	case ".toml":
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return errs.Wrap(errs.ErrKindInvalidConfig, fmt.Sprintf("cannot parse config file %q", path), err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errs.New(errs.ErrKindInvalidConfig, fmt.Sprintf("unknown keys in config file %q: %v", path, undecoded))
		}
		return nil
	default:
		return errs.New(errs.ErrKindInvalidConfig, fmt.Sprintf("unsupported config file extension %q", ext))
	}
}
