// Package logging builds the zerolog loggers used across handmouse.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where and how much to log.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Empty means info.
	Level string

	// Pretty writes coloured console output instead of JSON lines.
	Pretty bool

	// Out defaults to stderr.
	Out io.Writer

	// File, when set, also receives every entry without colours.
	File io.Writer
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
}

// New creates the root logger. An unknown level falls back to info.
func New(opts Options) zerolog.Logger {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var primary io.Writer = out
	if opts.Pretty {
		primary = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	w := primary
	if opts.File != nil {
		w = zerolog.MultiLevelWriter(primary, zerolog.ConsoleWriter{
			Out:        opts.File,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Sampled wraps logger for per-frame messages: a short burst passes, then
// only one entry in a hundred.
func Sampled(logger zerolog.Logger) zerolog.Logger {
	return logger.Sample(&zerolog.BurstSampler{
		Burst:       5,
		Period:      10 * time.Second,
		NextSampler: &zerolog.BasicSampler{N: 100},
	})
}
