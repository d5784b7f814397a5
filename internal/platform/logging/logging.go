// Package logging はslogのデフォルトロガーを環境変数から構成します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings.
type Config struct {
	Level  slog.Level // LOG_LEVEL: debug, info, warn, error (default info)
	Format string     // LOG_FORMAT: json or text (default text)
}

// LoadConfig reads LOG_LEVEL and LOG_FORMAT.
func LoadConfig() Config {
	cfg := Config{Level: slog.LevelInfo, Format: "text"}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.Level = lvl
		}
	}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		cfg.Format = "json"
	}
	return cfg
}

// NewLogger builds a logger writing to w.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup installs the logger described by the environment as the slog default.
func Setup() *slog.Logger {
	l := NewLogger(os.Stderr, LoadConfig())
	slog.SetDefault(l)
	return l
}
