// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package logging constructs slog loggers from configuration.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Formats for log output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config controls logger construction.
type Config struct {
	// Level is "debug", "info", "warn" or "error". Default: "info".
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	// Format is "text" or "json". Default: "text".
	Format string `yaml:"format" json:"format" mapstructure:"format"`
}

// New creates a slog logger writing to w per the configuration. A nil
// config produces a text logger at info level.
func New(w io.Writer, config *Config) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if config == nil {
		config = &Config{}
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(config.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(config.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Default returns a text logger at info level writing to stderr.
func Default() *slog.Logger {
	return New(os.Stderr, nil)
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
