// Package config loads shelf settings from defaults, an optional YAML file
// and SHELF_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shelf/internal/logging"
	"github.com/roach88/shelf/internal/resource"
)

// Environment variables that override file values.
const (
	EnvDatabase  = "SHELF_DB"
	EnvAuthority = "SHELF_AUTHORITY"
	EnvLogLevel  = "SHELF_LOG_LEVEL"
	EnvLogFormat = "SHELF_LOG_FORMAT"
)

const defaultDatabase = "shelf.db"

// Config is the complete set of shelf settings.
type Config struct {
	Database  string `yaml:"database"`
	Scheme    string `yaml:"scheme"`
	Authority string `yaml:"authority"`
	Path      string `yaml:"path"`
	Log       Log    `yaml:"log"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:  defaultDatabase,
		Scheme:    resource.DefaultScheme,
		Authority: resource.DefaultAuthority,
		Path:      resource.DefaultPath,
		Log: Log{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if path
// is non-empty) and then with environment overrides. An explicit path
// that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode merges YAML data into cfg. Unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := lookup(EnvDatabase); ok {
		cfg.Database = v
	}
	if v, ok := lookup(EnvAuthority); ok {
		cfg.Authority = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.Log.Format = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Database) == "":
		return fmt.Errorf("config: database is required")
	case strings.TrimSpace(c.Scheme) == "":
		return fmt.Errorf("config: scheme is required")
	case strings.TrimSpace(c.Authority) == "":
		return fmt.Errorf("config: authority is required")
	case strings.TrimSpace(c.Path) == "":
		return fmt.Errorf("config: path is required")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("config: unknown log format %q (want json or text)", c.Log.Format)
	}
	return nil
}

// Table builds the routing table these settings describe.
func (c Config) Table() (*resource.Table, error) {
	return resource.NewTable(c.Scheme, c.Authority, c.Path)
}
