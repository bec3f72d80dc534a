// Package config loads the settings of the instantdb command line tool.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl"
	"github.com/maruel/instantdb"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no config file is
// given. It is skipped when absent.
const DefaultFile = ".instantdb.yaml"

// Backends accepted in Config.Backend.
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Config holds the command line tool settings.
type Config struct {
	// Path is the database or document file.
	Path string `json:"path" yaml:"path" toml:"path" hcl:"path"`
	// Backend is "file" or "bolt".
	Backend string `json:"backend" yaml:"backend" toml:"backend" hcl:"backend"`
	// Bucket and Key locate the document in a bolt file. Empty uses the
	// library defaults.
	Bucket string `json:"bucket" yaml:"bucket" toml:"bucket" hcl:"bucket"`
	Key    string `json:"key" yaml:"key" toml:"key" hcl:"key"`
	// DeleteMode is "through" or "matched".
	DeleteMode string `json:"delete_mode" yaml:"delete_mode" toml:"delete_mode" hcl:"delete_mode"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level" hcl:"log_level"`
	// History is the REPL history file. Empty disables history.
	History string `json:"history" yaml:"history" toml:"history" hcl:"history"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".instantdb_history")
	}
	return &Config{
		Path:       instantdb.DefaultPath,
		Backend:    BackendFile,
		DeleteMode: instantdb.DeleteThrough.String(),
		LogLevel:   "warn",
		History:    history,
	}
}

// Validate checks that the enumerated settings hold a known value.
func (c *Config) Validate() error {
	if c.Path == "" {
		return errors.New("path is required")
	}
	switch c.Backend {
	case BackendFile, BackendBolt:
	default:
		return fmt.Errorf("backend: unknown value %q", c.Backend)
	}
	if _, err := instantdb.ParseDeleteMode(c.DeleteMode); err != nil || c.DeleteMode == "" {
		return fmt.Errorf("delete_mode: unknown value %q", c.DeleteMode)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level: unknown value %q", c.LogLevel)
	}
	return nil
}

// Load reads the config file at path over Defaults.
//
// The format is selected by the file extension: .yaml, .yml, .toml, .hcl or
// .json. If path is empty, DefaultFile is used when it exists.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		if _, err := os.Stat(DefaultFile); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		path = DefaultFile
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is chosen by the user.
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".hcl":
		return hcl.Decode(cfg, string(data))
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}
