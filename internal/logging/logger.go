// Package logging builds the JSON slog logger used by the doccare CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// redacted attribute keys, matched case-insensitively.
var redacted = map[string]bool{
	"token":         true,
	"password":      true,
	"authorization": true,
}

// New returns a JSON logger writing to w at the named level. Attributes named
// token, password or authorization are replaced with "[redacted]".
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: redact,
	}))
}

// ParseLevel maps debug, info, warn(ing) and error to slog levels. Anything
// else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func redact(_ []string, a slog.Attr) slog.Attr {
	if redacted[strings.ToLower(a.Key)] {
		return slog.String(a.Key, "[redacted]")
	}
	return a
}
