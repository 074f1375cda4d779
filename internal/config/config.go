// Package config loads holdkit configuration.
//
// Configuration is assembled in three steps, later steps overriding earlier
// ones:
//
//  1. Built-in defaults (Default).
//  2. A TOML file, if one exists.
//  3. HOLDKIT_* environment variables.
//
// The result is validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/holdkit/internal/history"
	"github.com/dshills/holdkit/internal/input/longpress"
)

// Config is the complete application configuration.
type Config struct {
	History   HistoryConfig   `toml:"history"`
	LongPress LongPressConfig `toml:"longpress"`
	Logging   LoggingConfig   `toml:"logging"`
}

// HistoryConfig configures the command history store.
type HistoryConfig struct {
	// MaxEntries limits each sequence. 0 means unlimited.
	MaxEntries int `toml:"max_entries"`

	// Transfer is "on-remove" or "always".
	Transfer string `toml:"transfer"`
}

// LongPressConfig configures long-press detection.
type LongPressConfig struct {
	// Interval is how long a press must be held.
	Interval Duration `toml:"interval"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("500ms").
// A bare integer is read as milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if ms, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			MaxEntries: 0,
			Transfer:   history.TransferOnRemove.String(),
		},
		LongPress: LongPressConfig{
			Interval: Duration(longpress.DefaultInterval),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path, applies environment overrides and
// validates the result. An empty path or a missing file yields the defaults
// plus environment overrides.
func Load(path string) (*Config, error) {
	return LoadFS(osFS{}, path)
}

// LoadFS is Load against an arbitrary file system.
func LoadFS(fsys fs.FS, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := fs.ReadFile(fsys, path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Missing file is not an error.
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := decode(path, bytes.NewReader(data), cfg); err != nil {
				return nil, err
			}
		}
	}

	if err := ApplyEnv(cfg, nil); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes TOML from r over the defaults and validates it.
// Environment variables are not consulted.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode("<reader>", r, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses TOML into cfg, rejecting unknown keys.
func decode(source string, r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	cfg.normalize()
	return nil
}

// normalize puts name-valued settings into canonical form.
func (c *Config) normalize() {
	c.History.Transfer = strings.ToLower(strings.TrimSpace(c.History.Transfer))
	c.Logging.Level = normalizeLevel(c.Logging.Level)
}

// normalizeLevel lowercases a level name and folds "warning" into "warn".
func normalizeLevel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return "warn"
	}
	return s
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.History.MaxEntries < 0 {
		return &ValidationError{
			Path:    "history.max_entries",
			Message: "must not be negative",
			Value:   c.History.MaxEntries,
		}
	}
	if _, err := history.ParseTransferMode(strings.ToLower(strings.TrimSpace(c.History.Transfer))); err != nil {
		return &ValidationError{
			Path:    "history.transfer",
			Message: err.Error(),
			Value:   c.History.Transfer,
		}
	}
	if c.LongPress.Interval < 0 {
		return &ValidationError{
			Path:    "longpress.interval",
			Message: "must not be negative",
			Value:   time.Duration(c.LongPress.Interval).String(),
		}
	}
	switch normalizeLevel(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Path:    "logging.level",
			Message: "must be one of debug, info, warn, error",
			Value:   c.Logging.Level,
		}
	}
	return nil
}

// TransferMode returns the parsed history transfer mode.
// Call Validate first; invalid values yield TransferOnRemove.
func (c *Config) TransferMode() history.TransferMode {
	mode, _ := history.ParseTransferMode(strings.ToLower(strings.TrimSpace(c.History.Transfer)))
	return mode
}

// HistoryOptions returns the store options described by the configuration.
func (c *Config) HistoryOptions() []history.Option {
	return []history.Option{
		history.WithTransferMode(c.TransferMode()),
		history.WithMaxEntries(c.History.MaxEntries),
	}
}

// LongPressInterval returns the configured hold interval.
func (c *Config) LongPressInterval() time.Duration {
	return time.Duration(c.LongPress.Interval)
}

// osFS reads paths as given, relative or absolute, from the OS.
type osFS struct{}

func (osFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
