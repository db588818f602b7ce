// File: internal/logging/logging.go
// Package logging builds the process-wide zerolog logger.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "HIOLOAD_LOG_LEVEL"
	EnvLogFormat  = "HIOLOAD_LOG_FORMAT"
	EnvLogNoColor = "HIOLOAD_LOG_NOCOLOR"
)

// Format selects the output encoding.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

// Options configures New. Environment variables override the fields.
type Options struct {
	App     string
	Level   zerolog.Level
	Format  Format
	NoColor bool
	Out     io.Writer // defaults to os.Stderr
}

// DefaultOptions returns info-level console logging to stderr.
func DefaultOptions(app string) Options {
	return Options{
		App:    app,
		Level:  zerolog.InfoLevel,
		Format: FormatConsole,
	}
}

// New builds a logger from opts after applying environment overrides.
func New(opts Options) zerolog.Logger {
	applyEnvOverrides(&opts)
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    opts.NoColor,
		}
	}
	ctx := zerolog.New(out).Level(opts.Level).With().Timestamp()
	if opts.App != "" {
		ctx = ctx.Str("app", opts.App)
	}
	return ctx.Logger()
}

func applyEnvOverrides(opts *Options) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		opts.Level = lvl
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))) {
	case "json":
		opts.Format = FormatJSON
	case "console", "text":
		opts.Format = FormatConsole
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		opts.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level. Unknown names report false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	return parseLevel(raw)
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
