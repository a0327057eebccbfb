// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging constructs the process-wide zerolog logger.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr. format selects "json" or
// "console"; level is a zerolog level name and defaults to info when
// unrecognized.
func New(level, format string) zerolog.Logger {
	var out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	logger := zerolog.New(out)
	if strings.ToLower(format) == "json" {
		logger = zerolog.New(os.Stderr)
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return logger.Level(lvl).With().Timestamp().Logger()
}
