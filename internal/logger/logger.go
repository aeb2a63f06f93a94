package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type Logger = *log.Logger

var global Logger

// Init replaces the process logger. Logs go to stderr so that rendered output
// written to stdout stays clean.
func Init(level string) {
	global = New(os.Stderr, level)
}

func L() Logger {
	if global == nil {
		global = New(os.Stderr, "info")
	}
	return global
}

func New(w io.Writer, level string) Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(io.Discard, "error")
}

func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
