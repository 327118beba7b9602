package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered.
type Format string

const (
	Console Format = "console"
	JSON    Format = "json"
)

// ParseFormat accepts "console" (default) or "json".
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", Console:
		return Console, nil
	case JSON:
		return JSON, nil
	}
	return Console, fmt.Errorf("unknown log format %q (want console or json)", s)
}

// New builds a timestamped logger writing to w.
func New(w io.Writer, level zerolog.Level, format Format) zerolog.Logger {
	if format == Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Level maps the CLI verbosity flag to a zerolog level.
func Level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}
