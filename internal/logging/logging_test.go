package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestLineHandler_FormatsPipeDelimited(t *testing.T) {
	var buf bytes.Buffer
	h := &lineHandler{w: &buf, level: slog.LevelInfo}
	logger := slog.New(h)

	logger.Info("daemon started", "target", "daemon")

	line := strings.TrimSpace(buf.String())
	parts := strings.Split(line, " | ")
	if len(parts) != 3 {
		t.Fatalf("line = %q, want 3 pipe-delimited fields", line)
	}
	if parts[1] != "INFO" {
		t.Errorf("level field = %q, want INFO", parts[1])
	}
	if !strings.HasPrefix(parts[2], "[daemon]") {
		t.Errorf("target field = %q, want prefix [daemon]", parts[2])
	}
}

func TestLineHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := &lineHandler{w: &buf, level: slog.LevelWarn}
	logger := slog.New(h)

	logger.Debug("should not appear")
	logger.Info("also should not appear")
	logger.Warn("this one should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("sub-threshold records were written: %q", out)
	}
	if !strings.Contains(out, "this one should appear") {
		t.Errorf("at-threshold record missing: %q", out)
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("HKB_LOG_LEVEL", "DEBUG")
	if got := LevelFromEnv(slog.LevelInfo); got != slog.LevelDebug {
		t.Errorf("LevelFromEnv = %v, want Debug", got)
	}

	t.Setenv("HKB_LOG_LEVEL", "")
	if got := LevelFromEnv(slog.LevelWarn); got != slog.LevelWarn {
		t.Errorf("LevelFromEnv fallback = %v, want Warn", got)
	}
}
