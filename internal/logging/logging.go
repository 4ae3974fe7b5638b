package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/crimson-sun/fluxdiff/internal/model"
)

// Init sets the default slog logger, writing to w (os.Stderr when nil), and
// returns it. When reports go to stdout as JSON, logs are JSON too so one
// collector can read both streams; otherwise logs use the text handler.
func Init(w io.Writer, jsonReports bool, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := New(w, jsonReports, level)
	slog.SetDefault(l)
	return l
}

// New builds a logger writing to w.
func New(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// Stats returns the attributes logged for one parsed trace.
func Stats(src model.Source, dialect string, s model.ParseStats) []any {
	return []any{
		"source", string(src),
		"dialect", dialect,
		"lines", s.Lines,
		"classified", s.Classified,
		"dropped", s.Dropped,
	}
}
