package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/marky/internal/extract"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a log level, defaulting to info
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Converted logs a finished conversion
func (l *Logger) Converted(source, dest string, nodes int) {
	l.Info("converted",
		"source", source,
		"dest", dest,
		"nodes", nodes)
}

// ExtractionSucceeded logs which strategy recovered a tree
func (l *Logger) ExtractionSucceeded(file string, strategy extract.Strategy, nodes int) {
	l.Debug("extraction succeeded",
		"file", file,
		"strategy", strategy,
		"nodes", nodes)
}

// ExtractionFailed logs the diagnostics of a document with no mindmap data
func (l *Logger) ExtractionFailed(file string, d extract.Diagnostics) {
	l.Error("extraction failed",
		"file", file,
		"size", d.FileSize,
		"script", d.HasScript,
		"markmap", d.HasMarkmap,
		"d3", d.HasD3,
		"svg", d.HasSVG,
		"first_script", d.FirstScript,
		"first_markmap", d.FirstMarkmap)
}

// WatchStarted logs the start of a watch loop
func (l *Logger) WatchStarted(sources int, interval time.Duration) {
	l.Info("watch started",
		"sources", sources,
		"interval", interval)
}

// WatchCompleted logs the end of one watch pass
func (l *Logger) WatchCompleted(processed, skipped, errors int, duration time.Duration) {
	l.Info("watch pass completed",
		"processed", processed,
		"skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, interval time.Duration, model string) {
	l.Debug("config loaded",
		"path", path,
		"watch_interval", interval,
		"ai_model", model)
}

// AIRequest logs a completed prompt round trip
func (l *Logger) AIRequest(kind, model string, duration time.Duration, err error) {
	if err != nil {
		l.Warn("ai request failed",
			"kind", kind,
			"model", model,
			"error", err)
		return
	}
	l.Info("ai request",
		"kind", kind,
		"model", model,
		"duration", duration.Round(time.Millisecond))
}
