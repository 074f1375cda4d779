package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix is the prefix of every environment variable holdkit reads.
const EnvPrefix = "HOLDKIT_"

// envOverrides mirrors the settings that can come from the environment.
// It is seeded from the current Config, so variables that are unset or
// empty keep their current value.
type envOverrides struct {
	MaxEntries int      `env:"HISTORY_MAX_ENTRIES"`
	Transfer   string   `env:"HISTORY_TRANSFER"`
	Interval   Duration `env:"LONGPRESS_INTERVAL"`
	LogLevel   string   `env:"LOG_LEVEL"`
}

// ApplyEnv overrides cfg with HOLDKIT_* variables. A nil environ reads the
// process environment.
func ApplyEnv(cfg *Config, environ map[string]string) error {
	o := envOverrides{
		MaxEntries: cfg.History.MaxEntries,
		Transfer:   cfg.History.Transfer,
		Interval:   cfg.LongPress.Interval,
		LogLevel:   cfg.Logging.Level,
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return &EnvError{Err: err}
	}

	cfg.History.MaxEntries = o.MaxEntries
	cfg.History.Transfer = o.Transfer
	cfg.LongPress.Interval = o.Interval
	cfg.Logging.Level = o.LogLevel
	cfg.normalize()
	return nil
}

// EnvVars returns the names of the environment variables ApplyEnv reads.
func EnvVars() []string {
	return []string{
		EnvPrefix + "HISTORY_MAX_ENTRIES",
		EnvPrefix + "HISTORY_TRANSFER",
		EnvPrefix + "LONGPRESS_INTERVAL",
		EnvPrefix + "LOG_LEVEL",
	}
}
