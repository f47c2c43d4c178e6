package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type Level int32

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
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
}

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown names fall back to
// info and report false.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, true
	case "info", "":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// Logger writes info and below to one stream and errors to another.
type Logger struct {
	out   *log.Logger
	err   *log.Logger
	level atomic.Int32
}

func New(out, errOut io.Writer) *Logger {
	l := &Logger{
		out: log.New(out, "", log.Ldate|log.Ltime|log.Lshortfile),
		err: log.New(errOut, "", log.Ldate|log.Ltime|log.Lshortfile),
	}
	l.level.Store(int32(LevelInfo))
	return l
}

func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// logf skips depth frames so Lshortfile names the caller, not this package.
func (l *Logger) logf(depth int, level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	target := l.out
	if level >= LevelError {
		target = l.err
	}
	target.Output(depth+1, level.String()+": "+fmt.Sprintf(format, v...))
}

func (l *Logger) Debug(format string, v ...interface{}) { l.logf(2, LevelDebug, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.logf(2, LevelInfo, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.logf(2, LevelWarn, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.logf(2, LevelError, format, v...) }

func (l *Logger) Fatal(format string, v ...interface{}) {
	l.err.Output(2, "FATAL: "+fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Global logger instance
var GlobalLogger = New(os.Stdout, os.Stderr)

// SetLevel configures the global logger from a LOG_LEVEL string.
func SetLevel(name string) {
	level, ok := ParseLevel(name)
	GlobalLogger.SetLevel(level)
	if !ok {
		GlobalLogger.Warn("Unknown log level %q, using info", name)
	}
}

// Convenience functions
func Debug(format string, v ...interface{}) { GlobalLogger.logf(2, LevelDebug, format, v...) }
func Info(format string, v ...interface{})  { GlobalLogger.logf(2, LevelInfo, format, v...) }
func Warn(format string, v ...interface{})  { GlobalLogger.logf(2, LevelWarn, format, v...) }
func Error(format string, v ...interface{}) { GlobalLogger.logf(2, LevelError, format, v...) }

func Fatal(format string, v ...interface{}) {
	GlobalLogger.err.Output(2, "FATAL: "+fmt.Sprintf(format, v...))
	os.Exit(1)
}
