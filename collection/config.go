package collection

import (
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

const (
	defaultHelpWidth  = 70
	defaultHelpIndent = 2
)

// Config controls help rendering and snapshot persistence. Defaults can be
// loaded via envdecode.
type Config struct {
	// HelpWidth is the wrap column of Help. ENV: PARAMKIT_HELP_WIDTH
	HelpWidth int `env:"PARAMKIT_HELP_WIDTH,default=70"`
	// HelpIndent is the number of spaces before each paragraph line.
	// ENV: PARAMKIT_HELP_INDENT
	HelpIndent int `env:"PARAMKIT_HELP_INDENT,default=2"`
	// SnapshotTTL bounds the lifetime of saved snapshots; zero keeps them
	// forever. ENV: PARAMKIT_SNAPSHOT_TTL
	SnapshotTTL time.Duration `env:"PARAMKIT_SNAPSHOT_TTL"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{HelpWidth: defaultHelpWidth, HelpIndent: defaultHelpIndent}
}

// ConfigFromEnv populates a Config from the environment, falling back to
// DefaultConfig for anything unset or invalid.
func ConfigFromEnv() Config {
	var cfg Config
	_ = envdecode.Decode(&cfg)
	return cfg.normalized()
}

func (c Config) normalized() Config {
	if c.HelpWidth <= 0 {
		c.HelpWidth = defaultHelpWidth
	}
	if c.HelpIndent < 0 {
		c.HelpIndent = defaultHelpIndent
	}
	if c.SnapshotTTL < 0 {
		c.SnapshotTTL = 0
	}
	return c
}

func (c Config) indent() string { return strings.Repeat(" ", c.HelpIndent) }
