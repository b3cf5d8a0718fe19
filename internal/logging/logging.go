// Package logging provides leveled logging with text and json output.
//
// Components receive a *Logger so alternate sinks can be injected in
// tests; the package-level functions delegate to a process-wide default
// that the CLI configures once at startup.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level is a log severity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the uppercase name of the level.
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

// lowerString is the json field form of the level.
func (l Level) lowerString() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level. Accepts any case but no
// surrounding whitespace; "warning" is an alias for "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %q", s)
	}
}

// Logger writes leveled log lines to an output sink.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format string // "text" or "json"
	out    io.Writer
}

// New creates a Logger writing text-format lines at the given level to w.
// A nil writer means stderr.
func New(level Level, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{level: level, format: "text", out: w}
}

// SetLevel changes the minimum level that is written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current minimum level.
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetFormat selects "text" or "json" output. Unknown values fall back
// to text.
func (l *Logger) SetFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if format != "json" {
		format = "text"
	}
	l.format = format
}

// SetOutput redirects output. A nil writer resets to stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	l.out = w
}

func (l *Logger) log(level Level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	now := time.Now()

	if l.format == "json" {
		entry := map[string]string{
			"ts":    now.Format(time.RFC3339),
			"level": level.lowerString(),
			"msg":   msg,
		}
		// Marshal of map[string]string cannot fail.
		b, _ := json.Marshal(entry)
		fmt.Fprintln(l.out, string(b))
		return
	}

	fmt.Fprintf(l.out, "%s [%s] %s\n", now.Format("2006-01-02 15:04:05"), level, msg)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Info logs at info level.
func (l *Logger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Error logs at error level.
func (l *Logger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

// defaultLogger is the process-wide logger used by the package-level
// functions. The CLI configures it once at startup.
var defaultLogger = New(LevelInfo, os.Stderr)

// Default returns the process-wide logger.
func Default() *Logger { return defaultLogger }

// SetLevel sets the default logger's level.
func SetLevel(level Level) { defaultLogger.SetLevel(level) }

// GetLevel returns the default logger's level.
func GetLevel() Level { return defaultLogger.GetLevel() }

// SetFormat sets the default logger's output format ("text" or "json").
func SetFormat(format string) { defaultLogger.SetFormat(format) }

// SetOutput redirects the default logger. A nil writer resets to stderr.
func SetOutput(w io.Writer) { defaultLogger.SetOutput(w) }

// Debug logs to the default logger at debug level.
func Debug(format string, args ...any) { defaultLogger.Debug(format, args...) }

// Info logs to the default logger at info level.
func Info(format string, args ...any) { defaultLogger.Info(format, args...) }

// Warn logs to the default logger at warn level.
func Warn(format string, args ...any) { defaultLogger.Warn(format, args...) }

// Error logs to the default logger at error level.
func Error(format string, args ...any) { defaultLogger.Error(format, args...) }
