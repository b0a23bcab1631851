// Package logger is a small leveled wrapper around the standard log
// package. The level is process-global and set once from the CLI flag.
package logger

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetLevel sets the global log level.
func SetLevel(l Level) {
	current.Store(int32(l))
}

func logf(l Level, prefix, format string, args ...any) {
	if int32(l) < current.Load() {
		return
	}
	log.Printf(prefix+" "+format, args...)
}

func Debug(format string, args ...any) { logf(LevelDebug, "[DEBUG]", format, args...) }
func Info(format string, args ...any)  { logf(LevelInfo, "[INFO]", format, args...) }
func Warn(format string, args ...any)  { logf(LevelWarn, "[WARN]", format, args...) }
func Error(format string, args ...any) { logf(LevelError, "[ERROR]", format, args...) }
