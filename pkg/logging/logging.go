// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                          // INFO level, from LOG_LEVEL env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures colored logging at the given level. Color is
// disabled when stderr is not a terminal, so piped output stays clean.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}),
	))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
