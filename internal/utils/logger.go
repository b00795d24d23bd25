package utils

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

// LogLevel represents different logging levels
type LogLevel int32

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	DISABLED
)

// String returns the string representation of log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case DISABLED:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel converts a level name into a LogLevel, defaulting to INFO.
func ParseLogLevel(name string) LogLevel {
	switch name {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	case "DISABLED":
		return DISABLED
	default:
		return INFO
	}
}

// Logger provides leveled logging tagged with a component name
type Logger struct {
	level int32 // atomic access
	name  string
}

// Global logger instance
var globalLogger *Logger

func init() {
	globalLogger = NewLogger("GLOBAL")
	globalLogger.SetLevel(ParseLogLevel(os.Getenv("LOG_LEVEL")))
}

// NewLogger creates a new logger with the given component name
func NewLogger(name string) *Logger {
	return &Logger{
		level: int32(INFO),
		name:  name,
	}
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	atomic.StoreInt32(&l.level, int32(level))
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return LogLevel(atomic.LoadInt32(&l.level))
}

// shouldLog checks if a level should be logged (fast path)
func (l *Logger) shouldLog(level LogLevel) bool {
	return LogLevel(atomic.LoadInt32(&l.level)) <= level
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.shouldLog(DEBUG) {
		l.logf(DEBUG, format, args...)
	}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.shouldLog(INFO) {
		l.logf(INFO, format, args...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.shouldLog(WARN) {
		l.logf(WARN, format, args...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	if l.shouldLog(ERROR) {
		l.logf(ERROR, format, args...)
	}
}

// logf performs the actual logging
func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	prefix := fmt.Sprintf("[%s:%s] ", l.name, level.String())
	log.Printf(prefix+format, args...)
}

// SetGlobalLevel sets the global logger level
func SetGlobalLevel(level LogLevel) {
	globalLogger.SetLevel(level)
}

// Component-specific loggers for different parts of the system
var (
	DatasetLogger     = NewLogger("DATASET")
	StatsLogger       = NewLogger("STATS")
	CacheLogger       = NewLogger("CACHE")
	ViewsLogger       = NewLogger("VIEWS")
	ServerLogger      = NewLogger("SERVER")
	BroadcasterLogger = NewLogger("BROADCASTER")
)

// InitializeComponentLoggers sets up component loggers with appropriate levels
func InitializeComponentLoggers() {
	if os.Getenv("ENABLE_DEBUG_LOGS") == "true" {
		DatasetLogger.SetLevel(DEBUG)
		StatsLogger.SetLevel(DEBUG)
		CacheLogger.SetLevel(DEBUG)
		ViewsLogger.SetLevel(DEBUG)
		ServerLogger.SetLevel(DEBUG)
		BroadcasterLogger.SetLevel(DEBUG)
	} else {
		// Production levels - reduce noise from per-request components
		DatasetLogger.SetLevel(INFO)
		StatsLogger.SetLevel(WARN)
		CacheLogger.SetLevel(WARN)
		ViewsLogger.SetLevel(WARN)
		ServerLogger.SetLevel(INFO)
		BroadcasterLogger.SetLevel(INFO)
	}
}
