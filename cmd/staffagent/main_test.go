package main

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.name); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestArgOr(t *testing.T) {
	args := []string{"101", "wet floor"}
	if got := argOr(args, 0); got != "101" {
		t.Errorf("argOr(0) = %q", got)
	}
	if got := argOr(args, 5); got != "" {
		t.Errorf("argOr out of range = %q, want empty", got)
	}
}
