package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"TRACE", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := Setup("warn", "json", &buf)
	logger.Info("dropped")
	logger.Warn("kept", "xid", "0x3d1d")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["msg"] != "kept" || rec["xid"] != "0x3d1d" {
		t.Errorf("record = %v", rec)
	}
}

func TestSetupText(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Setup("info", "text", &buf).Info("hello", "channel", 2)

	out := buf.String()
	if !strings.Contains(out, "msg=hello") || !strings.Contains(out, "channel=2") {
		t.Errorf("text output = %q", out)
	}
}
