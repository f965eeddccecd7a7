// Package logging builds the slog logger described by planline.yml.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"planline/internal/config"
)

// New returns a logger writing to w in the configured format and level, with a
// "component" attribute on every record.
func New(cfg *config.Config, w io.Writer) *slog.Logger {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("component", "planline")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
