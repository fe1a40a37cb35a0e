// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"dicebound/internal/engine"
)

type Config struct {
	HTTPAddr          string `env:"DICEBOUND_ADDR"                envDefault:":8080"`
	LogLevelName      string `env:"DICEBOUND_LOG_LEVEL"           envDefault:"info"`
	DevMode           bool   `env:"DICEBOUND_DEV_MODE"            envDefault:"false"`
	SkipLoadoutSelect bool   `env:"DICEBOUND_SKIP_LOADOUT_SELECT" envDefault:"false"`
	DefaultLoadout    string `env:"DICEBOUND_DEFAULT_LOADOUT"     envDefault:"newbie"`
	Seed              uint64 `env:"DICEBOUND_SEED"                envDefault:"0"`
	PublicURL         string `env:"DICEBOUND_PUBLIC_URL"`

	SessionTTL time.Duration `env:"DICEBOUND_SESSION_TTL" envDefault:"30m"` // 0 keeps sessions forever

	// Parsed from LogLevelName by Load.
	LogLevel slog.Level
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	level, err := parseLogLevel(c.LogLevelName)
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	if _, ok := engine.LookupLoadout(engine.LoadoutID(c.DefaultLoadout)); !ok {
		return Config{}, fmt.Errorf("invalid DICEBOUND_DEFAULT_LOADOUT %q", c.DefaultLoadout)
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	return c, nil
}

// Engine returns the rules configuration for new runs.
func (c Config) Engine() engine.Config {
	ec := engine.DefaultConfig()
	ec.DevMode = c.DevMode
	ec.SkipLoadoutSelect = c.SkipLoadoutSelect
	ec.DefaultLoadout = engine.LoadoutID(c.DefaultLoadout)
	return ec
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid DICEBOUND_LOG_LEVEL %q", s)
	}
}
