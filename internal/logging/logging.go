// Package logging builds the zerolog logger shared by the CLI and the
// Router.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Service is the value of the "service" field on every log line.
const Service = "shelf"

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options configures New.
type Options struct {
	Level  string    // debug|info|warn|error (default info)
	Format string    // json|text (default text)
	Out    io.Writer // default os.Stderr
}

// New returns a logger writing to opts.Out.
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    true,
		}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want json or text)", opts.Format)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", Service).
		Logger(), nil
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
