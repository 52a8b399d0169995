// Package klog wraps zap with the leveled logging shape kang's components
// expect: Info, Warn, Error, Debug, each accepting printf-style arguments.
package klog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the leveled logger every kang component is handed at construction
// time. Never reach for a package-level global from a leaf package — pass a
// *Logger in.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Level selects the minimum verbosity printed, mirroring the original
// server's "debug, info, warning, error" CLI flag.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a CLI string to a Level, defaulting to LevelWarn for
// anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

// New builds a console logger with ANSI-colored level prefixes, matching the
// original server's bold green/yellow/red/cyan tags.
func New(level Level) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    colorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		zapLevel(level),
	)

	return &Logger{sugar: zap.New(core).Sugar()}
}

func zapLevel(l Level) zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// colorLevelEncoder renders level tags the way the original logger's ANSI
// macros did: bold green INFO, bold yellow WARN, bold red ERROR, bold cyan
// DEBUG.
func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString("\x1b[1;36m[DEBUG]\x1b[0m")
	case zapcore.InfoLevel:
		enc.AppendString("\x1b[1;32m[INFO]\x1b[0m")
	case zapcore.WarnLevel:
		enc.AppendString("\x1b[1;33m[WARN]\x1b[0m")
	default:
		enc.AppendString("\x1b[1;31m[ERROR]\x1b[0m")
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered log entries; call once at shutdown.
func (l *Logger) Sync() error { return l.sugar.Sync() }

// Nop returns a Logger that discards everything, useful in tests.
func Nop() *Logger { return &Logger{sugar: zap.NewNop().Sugar()} }
