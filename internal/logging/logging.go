// Package logging builds the process-wide structured logger: lines of the
// form "TIMESTAMP | LEVEL | [target] message", written to stdout and/or a
// file. It is a custom slog.Handler, so every consumer takes a plain
// *slog.Logger and stays decoupled from the line format.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Target names a logging destination.
type Target int

const (
	TargetStdout Target = iota
	TargetFile
)

// Config controls where and at what level the logger writes.
type Config struct {
	Targets  []Target
	FilePath string
	Level    slog.Level
}

// LevelFromEnv resolves the HKB_LOG_LEVEL environment override, falling
// back to fallback when unset or unrecognized.
func LevelFromEnv(fallback slog.Level) slog.Level {
	switch strings.ToUpper(os.Getenv("HKB_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return fallback
	}
}

// New builds a *slog.Logger writing lines as
// "TIMESTAMP | LEVEL | [target] message" to every configured destination.
func New(cfg Config) (*slog.Logger, error) {
	var writers []io.Writer
	for _, t := range cfg.Targets {
		switch t {
		case TargetStdout:
			writers = append(writers, os.Stdout)
		case TargetFile:
			if cfg.FilePath == "" {
				return nil, fmt.Errorf("logging: TargetFile requires FilePath")
			}
			f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("logging: open log file: %w", err)
			}
			writers = append(writers, f)
		}
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	h := &lineHandler{w: io.MultiWriter(writers...), level: cfg.Level}
	return slog.New(h), nil
}

// lineHandler renders each record as a single
// "TIMESTAMP | LEVEL | [target] message" line, target taken from the
// "target" attribute if present, else the record's source-less default.
type lineHandler struct {
	w     io.Writer
	level slog.Level
	group string
	attrs []slog.Attr
	mu    sync.Mutex
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	target := "hkb"
	var extras []string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "target" {
			target = a.Value.String()
		} else {
			extras = append(extras, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
		}
		return true
	})
	for _, a := range h.attrs {
		extras = append(extras, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
	}

	line := fmt.Sprintf("%s | %s | [%s] %s", r.Time.Format("2006-01-02T15:04:05Z07:00"), r.Level, target, r.Message)
	if len(extras) > 0 {
		line += " " + strings.Join(extras, " ")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &lineHandler{w: h.w, level: h.level, group: h.group, attrs: append(h.attrs, attrs...)}
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	return &lineHandler{w: h.w, level: h.level, group: name, attrs: h.attrs}
}
