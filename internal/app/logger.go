package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLogLevel maps a case-insensitive level name to a slog.Level.
func ParseLogLevel(name string) (slog.Level, error) {
	if lvl, ok := logLevels[strings.ToLower(name)]; ok {
		return lvl, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", name)
}

// ParseLogFormat normalizes a log format name; only "text" and "json" exist.
func ParseLogFormat(name string) (string, error) {
	switch f := strings.ToLower(name); f {
	case "text", "json":
		return f, nil
	}
	return "", fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", name)
}

// newLogger builds an isolated logger; the process-wide default is untouched.
// Unknown names fall back to info level and text output.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	lvl, _ := ParseLogLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if f, _ := ParseLogFormat(format); f == "json" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("component", "runbookgo")
}
