package logger

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// String returns the string representation of the level
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
	case LevelSilent:
		return "SILENT"
	default:
		return "UNKNOWN"
	}
}

// Logger provides structured logging with configurable levels
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value any
}

// F is a convenience function for creating fields
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// logrusLogger implements Logger on top of a logrus entry
type logrusLogger struct {
	base  *logrus.Logger
	out   io.Writer
	entry *logrus.Entry
	mu    *sync.Mutex
	level *Level
}

// NewLogger creates a new logger with the specified level and output
func NewLogger(level Level, out io.Writer) Logger {
	if out == nil {
		out = os.Stderr
	}
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableColors:    true,
	})
	l := &logrusLogger{
		base:  base,
		out:   out,
		entry: logrus.NewEntry(base),
		mu:    &sync.Mutex{},
		level: new(Level),
	}
	l.SetLevel(level)
	return l
}

// NewDefaultLogger creates a logger with Info level writing to stderr
func NewDefaultLogger() Logger {
	return NewLogger(LevelInfo, os.Stderr)
}

// NewSilentLogger creates a logger that outputs nothing
func NewSilentLogger() Logger {
	return NewLogger(LevelSilent, io.Discard)
}

// SetLevel sets the minimum logging level. Loggers derived with WithFields
// share the level of their parent.
func (l *logrusLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()

	*l.level = level
	l.base.SetOutput(l.out)
	switch level {
	case LevelDebug:
		l.base.SetLevel(logrus.DebugLevel)
	case LevelInfo:
		l.base.SetLevel(logrus.InfoLevel)
	case LevelWarn:
		l.base.SetLevel(logrus.WarnLevel)
	case LevelError:
		l.base.SetLevel(logrus.ErrorLevel)
	default:
		l.base.SetLevel(logrus.PanicLevel)
		l.base.SetOutput(io.Discard)
	}
}

// WithFields returns a new logger with additional fields
func (l *logrusLogger) WithFields(fields ...Field) Logger {
	return &logrusLogger{
		base:  l.base,
		out:   l.out,
		entry: l.entry.WithFields(toLogrus(fields)),
		mu:    l.mu,
		level: l.level,
	}
}

func (l *logrusLogger) Debug(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, fields ...Field) {
	l.entry.WithFields(toLogrus(fields)).Error(msg)
}

func toLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// Global default logger
var defaultLogger = NewDefaultLogger()

// Default returns the global default logger
func Default() Logger {
	return defaultLogger
}
