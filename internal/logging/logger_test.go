package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "email", "asha@example.com")

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info to be filtered, got %s", out)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", out, err)
	}
	if rec["msg"] != "shown" || rec["email"] != "asha@example.com" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestNewRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info").Info("login", "token", "eyJ.secret.sig", "Password", "pw", "email", "a@b.co")

	out := buf.String()
	if strings.Contains(out, "eyJ.secret.sig") || strings.Contains(out, `"pw"`) {
		t.Fatalf("secret leaked: %s", out)
	}
	if !strings.Contains(out, "a@b.co") {
		t.Fatalf("expected non-secret attrs kept: %s", out)
	}
}
