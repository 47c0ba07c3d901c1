package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel parses a log level string.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "info":
		return LogLevelInfo
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// ZapLevel maps the level onto zap. Off maps to error; callers silence it separately.
func (l LogLevel) ZapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelOff, LogLevelError:
	}
	return zapcore.ErrorLevel
}

// Logger is a zap logger bound to a log file.
type Logger struct {
	*zap.Logger

	mu       sync.Mutex
	level    LogLevel
	atomic   zap.AtomicLevel
	file     *os.File
	filePath string
}

// NewLogger creates a logger writing JSON lines to filePath. With level off or
// an empty path the logger discards everything.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	if level == LogLevelOff || filePath == "" {
		l := NullLogger()
		l.level = level
		l.filePath = filePath
		return l, nil
	}

	filePath = ExpandHome(filePath)

	// Ensure directory exists
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	atomic := zap.NewAtomicLevelAt(level.ZapLevel())
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), atomic)

	return &Logger{
		Logger:   zap.New(core),
		level:    level,
		atomic:   atomic,
		file:     f,
		filePath: filePath,
	}, nil
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	_ = l.Sync()
	return l.file.Close()
}

// SetLevel changes the log level. Switching a file-less logger on has no effect.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	if l.file == nil {
		return
	}
	if level == LogLevelOff {
		l.atomic.SetLevel(zapcore.FatalLevel + 1)
		return
	}
	l.atomic.SetLevel(level.ZapLevel())
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Path returns the expanded log file path.
func (l *Logger) Path() string {
	return l.filePath
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{
		Logger: zap.NewNop(),
		level:  LogLevelOff,
		atomic: zap.NewAtomicLevelAt(zapcore.ErrorLevel),
	}
}
