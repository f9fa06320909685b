// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports"
	"gopkg.in/natefinch/lumberjack.v2"
)

const fileBackups = 3

// Logger implements ports.Logger using log/slog.
//
// Terminal output is pretty-printed unless JSON mode is enabled. When a log
// file is configured every record is also written to it as JSON through a
// size-rotated sink.
type Logger struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	level    *slog.LevelVar
	jsonMode bool
	output   io.Writer
	file     *lumberjack.Logger
}

// New creates a new Logger writing pretty output to stderr at info level.
func New() ports.Logger {
	l := &Logger{
		level:  &slog.LevelVar{},
		output: os.Stderr,
	}
	l.rebuild()
	return l
}

// Configure applies log settings from the configuration file and command line.
func (l *Logger) Configure(settings domain.LogSettings) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = settings.JSON
	if settings.Verbose {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}
	l.setFile(settings.File, settings.MaxSizeMB)
	l.rebuild()
}

// SetOutput updates the terminal output destination. If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches the terminal output between JSON and pretty logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetVerbose enables debug messages.
func (l *Logger) SetVerbose(enable bool) {
	if enable {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.rebuild()
	return err
}

func (l *Logger) setFile(path string, maxSizeMB int) {
	if l.file != nil {
		_ = l.file.Close()
		l.file = nil
	}
	if path == "" {
		return
	}
	l.file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: fileBackups,
	}
}

// rebuild recreates the slog handler chain. Callers hold mu.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}

	var terminal slog.Handler
	if l.jsonMode {
		terminal = slog.NewJSONHandler(l.output, opts)
	} else {
		terminal = NewPrettyHandler(l.output, opts)
	}

	if l.file == nil {
		l.logger = slog.New(terminal)
		return
	}
	l.logger = slog.New(fanout{terminal, slog.NewJSONHandler(l.file, opts)})
}

// Debug logs a diagnostic message, shown only in verbose mode.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error. Pretty output renders the whole error chain with its
// metadata, JSON output carries the error as a structured attribute.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	if l.jsonMode {
		l.logger.Error("operation failed", "error", err)
		return
	}

	l.logger.Error(formatErrorEntries(collectErrorEntries(err)))
}
