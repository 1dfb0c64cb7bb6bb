package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

// sink is a single log destination with its own threshold.
type sink struct {
	logger *log.Logger
	level  LogLevel
	closer io.Closer
}

var (
	sinksMu  sync.RWMutex
	sinks    []sink
	sinkOnce sync.Once
)

// Options configures the log sinks installed by Configure.
type Options struct {
	// ConsoleLevel is the threshold for the stderr sink.
	ConsoleLevel LogLevel
	// FilePath enables a rotating file sink when non-empty.
	FilePath string
	// FileLevel is the threshold for the file sink.
	FileLevel LogLevel
	// MaxBytes is the size at which the file sink rotates.
	MaxBytes int64
	// Backups is the number of rotated files kept.
	Backups int
}

// LevelFromEnv returns the level selected by DEBUG or LOG_LEVEL, or fallback
// when neither is set.
func LevelFromEnv(fallback LogLevel) LogLevel {
	// Check DEBUG environment variable first
	if debug := os.Getenv("DEBUG"); debug != "" {
		switch strings.ToLower(debug) {
		case "1", "true", "yes", "on":
			return LevelDebug
		}
	}

	if level, ok := ParseLevel(os.Getenv("LOG_LEVEL")); ok {
		return level
	}
	return fallback
}

// ParseLevel converts a level name to a LogLevel.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// initSinks installs the default stderr sink if Configure was never called.
func initSinks() {
	sinkOnce.Do(func() {
		sinksMu.Lock()
		defer sinksMu.Unlock()
		if sinks == nil {
			sinks = []sink{{
				logger: log.New(os.Stderr, "", log.LstdFlags),
				level:  LevelFromEnv(LevelInfo),
			}}
		}
	})
}

// Configure replaces the active sinks with a stderr sink and, when
// opts.FilePath is set, a size-rotated file sink.
func Configure(opts Options) error {
	sinkOnce.Do(func() {})

	next := []sink{{
		logger: log.New(os.Stderr, "", log.LstdFlags),
		level:  opts.ConsoleLevel,
	}}

	if opts.FilePath != "" {
		rw, err := NewRotatingWriter(opts.FilePath, opts.MaxBytes, opts.Backups)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		next = append(next, sink{
			logger: log.New(rw, "", log.LstdFlags),
			level:  opts.FileLevel,
			closer: rw,
		})
	}

	swapSinks(next)
	return nil
}

// SetOutput routes all log output to w at the given level. Mainly used by
// tests to capture log lines.
func SetOutput(w io.Writer, level LogLevel) {
	sinkOnce.Do(func() {})
	swapSinks([]sink{{logger: log.New(w, "", 0), level: level}})
}

// Close releases any file sinks.
func Close() {
	swapSinks(nil)
}

func swapSinks(next []sink) {
	sinksMu.Lock()
	old := sinks
	sinks = next
	sinksMu.Unlock()

	for _, s := range old {
		if s.closer != nil {
			_ = s.closer.Close()
		}
	}
}

// GetLevel returns the most verbose level accepted by any sink
func GetLevel() LogLevel {
	initSinks()
	sinksMu.RLock()
	defer sinksMu.RUnlock()

	lowest := LevelError
	for _, s := range sinks {
		if s.level < lowest {
			lowest = s.level
		}
	}
	return lowest
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

func write(level LogLevel, prefix, format string, args ...interface{}) {
	initSinks()
	sinksMu.RLock()
	defer sinksMu.RUnlock()

	msg := fmt.Sprintf(format, args...)
	for _, s := range sinks {
		if level >= s.level {
			s.logger.Print(prefix + msg)
		}
	}
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	write(LevelDebug, "[DEBUG] ", format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	write(LevelInfo, "[INFO] ", format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	write(LevelWarn, "[WARN] ", format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	write(LevelError, "[ERROR] ", format, args...)
}

// Fatal logs an error message to every sink and exits
func Fatal(format string, args ...interface{}) {
	write(LevelError, "[FATAL] ", format, args...)
	Close()
	os.Exit(1)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
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
		return fmt.Sprintf("unknown(%d)", l)
	}
}
