// Package config reads cmdkit settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-wide settings. Command-line flags override these.
type Settings struct {
	Debug     bool   `env:"CMDKIT_DEBUG"      envDefault:"false"`
	Home      string `env:"CMDKIT_HOME"`
	LogFile   string `env:"CMDKIT_LOG_FILE"`
	Format    string `env:"CMDKIT_FORMAT"     envDefault:"json"`
	UndoLimit int    `env:"CMDKIT_UNDO_LIMIT" envDefault:"0"`
}

// Load parses Settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.UndoLimit < 0 {
		return Settings{}, fmt.Errorf("CMDKIT_UNDO_LIMIT must not be negative, got %d", s.UndoLimit)
	}
	switch s.Format {
	case "json", "yaml", "yml":
	default:
		return Settings{}, fmt.Errorf("CMDKIT_FORMAT must be json or yaml, got %q", s.Format)
	}
	return s, nil
}
