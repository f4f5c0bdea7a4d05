// Package logger provides the levelled, prefixed logger used by the CLI and
// the API server, and an adapter that logs sketch events.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alexiusacademia/wfbeam/internal/sketch"
)

// Level represents logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", name)
}

// Logger writes one line per message. Sub-loggers share the writer and its
// lock.
type Logger struct {
	mu       *sync.Mutex
	out      io.Writer
	minLevel Level
	prefix   string
	now      func() time.Time
}

// New creates a new logger
func New(out io.Writer, minLevel Level, prefix string) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{
		mu:       &sync.Mutex{},
		out:      out,
		minLevel: minLevel,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Default returns an info logger to stderr
func Default() *Logger {
	return New(os.Stderr, LevelInfo, "")
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1, "")
}

// WithPrefix creates a sub-logger with an additional prefix
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + "/" + prefix
	}
	return &Logger{
		mu:       l.mu,
		out:      l.out,
		minLevel: l.minLevel,
		prefix:   newPrefix,
		now:      l.now,
	}
}

// Enabled reports whether messages of the level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.minLevel
}

func (l *Logger) log(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := l.now().Format("15:04:05.000")
	prefix := ""
	if l.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", l.prefix)
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s %s %s%s\n", timestamp, level.String(), prefix, msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Step logs a named step and returns a func logging its completion time.
func (l *Logger) Step(name string) func() {
	start := l.now()
	l.Debug("start: %s", name)
	return func() {
		l.Debug("done: %s (took %v)", name, l.now().Sub(start).Round(time.Millisecond))
	}
}

// Observer returns a sketch observer that logs cell edits at debug level,
// geometry and grid changes at info level and rejected edits and layout
// collisions as warnings.
func (l *Logger) Observer() sketch.Observer {
	return sketch.ObserverFunc(func(e sketch.Event) {
		switch e.Kind {
		case sketch.EventCellChanged, sketch.EventZoomChanged:
			l.Debug("%s", e)
		case sketch.EventCellRejected, sketch.EventDimensionCollision:
			l.Warn("%s", e)
		default:
			l.Info("%s", e)
		}
	})
}
