// Package config loads editkit project configuration from .editkit.toml at
// the project root.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the project configuration file looked up at the project root.
const FileName = ".editkit.toml"

// Config holds project-level editkit configuration.
type Config struct {
	// Format is the wire format to parse responses with.
	// Default: "block".
	Format string `toml:"format" json:"format"`

	// ContextLines is how many unchanged lines previews show around each
	// change.
	// Default: 2.
	ContextLines int `toml:"context_lines" json:"context_lines"`

	// AutoAccept applies every parsed edit without asking.
	AutoAccept bool `toml:"auto_accept" json:"auto_accept"`

	// LockTimeout is how long an apply waits for the project lock before
	// giving up. Zero disables the lock.
	// Default: 10 seconds.
	LockTimeout Duration `toml:"lock_timeout" json:"lock_timeout"`

	// HistoryFile is where the edit history is persisted, relative to the
	// project root.
	// Default: ".editkit.history.json".
	HistoryFile string `toml:"history_file" json:"history_file"`

	// Model is the model name used when streaming straight from an API.
	Model string `toml:"model" json:"model"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Format:       "block",
		ContextLines: 2,
		LockTimeout:  Duration(10 * time.Second),
		HistoryFile:  ".editkit.history.json",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Format == "" {
		return fmt.Errorf("format is required")
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines must be >= 0")
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must be >= 0")
	}
	return nil
}

// WithDefaults returns a copy of the config with defaults applied.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()
	if c.Format == "" {
		c.Format = defaults.Format
	}
	if c.ContextLines == 0 {
		c.ContextLines = defaults.ContextLines
	}
	if c.LockTimeout == 0 {
		c.LockTimeout = defaults.LockTimeout
	}
	if c.HistoryFile == "" {
		c.HistoryFile = defaults.HistoryFile
	}
	return c
}

// Load reads the configuration from root. A missing file is not an error;
// defaults are returned.
func Load(root string) (Config, error) {
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
