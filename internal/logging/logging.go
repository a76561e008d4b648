// Package logging wraps github.com/sirupsen/logrus for the non-fatal
// diagnostics the generator emits: a table skipped by the configured
// filters (info), a formatter failure (warning). None of these are fatal — fatal
// conditions are always a core.Error returned up the call stack instead.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger every package that needs to warn (never
// error) logs through.
type Logger struct {
	entry *logrus.Entry
}

// New returns a Logger writing JSON-formatted entries to stderr.
func New() *Logger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{entry: logrus.NewEntry(base)}
}

// WithField returns a Logger carrying one extra structured field, e.g.
// logger.WithField("table", table.Name).Warn("skipped: no primary key").
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Warn logs msg at warning level.
func (l *Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

// Info logs msg at info level.
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}
