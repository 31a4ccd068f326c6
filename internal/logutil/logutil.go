// Package logutil configures the process-wide structured logger.
package logutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	log "github.com/charmbracelet/log"
)

// Configure sets the minimum level of the default logger and points it at
// stderr. An empty level means info.
func Configure(levelRaw string) error {
	return ConfigureOutput(levelRaw, os.Stderr)
}

// ConfigureOutput is Configure with an explicit destination.
func ConfigureOutput(levelRaw string, w io.Writer) error {
	level, err := ParseLevel(levelRaw)
	if err != nil {
		return err
	}
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetReportTimestamp(level == log.DebugLevel)
	log.SetTimeFormat(time.TimeOnly)
	return nil
}

// ParseLevel accepts debug, info, warn, error and fatal. trace maps to debug,
// the most verbose level the logger has.
func ParseLevel(levelRaw string) (log.Level, error) {
	levelRaw = strings.ToLower(strings.TrimSpace(levelRaw))
	switch levelRaw {
	case "":
		return log.InfoLevel, nil
	case "trace", "trac":
		return log.DebugLevel, nil
	}
	level, err := log.ParseLevel(levelRaw)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", levelRaw)
	}
	return level, nil
}

// New returns a logger with the given prefix that shares the default
// logger's output and level.
func New(prefix string) *log.Logger {
	l := log.Default().With()
	l.SetPrefix(prefix)
	return l
}
