package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var log atomic.Pointer[slog.Logger]

// GetLogger returns the process-wide logger. Until Init is called it logs at
// info level.
func GetLogger() *slog.Logger {
	if l := log.Load(); l != nil {
		return l
	}
	log.CompareAndSwap(nil, New("INFO"))
	return log.Load()
}

// Init replaces the process-wide logger with one at the given level.
func Init(level string) *slog.Logger {
	l := New(level)
	log.Store(l)
	slog.SetDefault(l)
	return l
}

// New builds a text logger writing to stderr.
func New(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
