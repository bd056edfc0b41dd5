package logging

import (
	"log/slog"
	"testing"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := Level(tc.raw); got != tc.want {
			t.Fatalf("Level(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}
