// Package logger provides the shared structured logger for the CLI.
package logger

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

type Logger = *log.Logger

var global Logger

// Init configures the global logger. Call once after flag parsing.
func Init(level string) {
	global = New(level)
}

// L returns the global logger, initializing it at info level on first use.
func L() Logger {
	if global == nil {
		global = New("info")
	}
	return global
}

// New builds a logger writing to stderr so that formatted command output on
// stdout stays machine-parseable.
func New(level string) Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
	})

	switch strings.ToLower(level) {
	case "debug":
		l.SetLevel(log.DebugLevel)
	case "warn":
		l.SetLevel(log.WarnLevel)
	case "error":
		l.SetLevel(log.ErrorLevel)
	default:
		l.SetLevel(log.InfoLevel)
	}

	return l
}
