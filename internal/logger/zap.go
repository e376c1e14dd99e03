package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// defaultZapLevel defines the fallback log level when an unknown level string is provided.
const defaultZapLevel = zapcore.DebugLevel

const defaultFileName = "sensoringest.log"

// toZapLevel converts a textual level to zapcore.Level using known level constants.
func toZapLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case InfoLevel:
		return zapcore.InfoLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return defaultZapLevel
	}
}

// newConsoleCore builds a zapcore.Core with a console encoder targeting stdout.
func newConsoleCore(level zapcore.Level) zapcore.Core {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = ""
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	encoder := zapcore.NewConsoleEncoder(cfg)
	ws := zapcore.Lock(os.Stdout) // thread-safe writer
	return zapcore.NewCore(encoder, zapcore.AddSync(ws), zap.NewAtomicLevelAt(level))
}

// newFileCore builds a JSON core appending to path. The file always records debug and up.
func newFileCore(path string) (zapcore.Core, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(f), zap.NewAtomicLevelAt(zapcore.DebugLevel)), nil
}

// newZapLogger constructs a sugared console-only zap logger.
func newZapLogger(opts Options) *Logger {
	core := newConsoleCore(toZapLevel(opts.Level))
	return &Logger{
		SugaredLogger: zap.New(core).Sugar(),
	}
}

// New builds a logger that writes to stdout and, when opts.Directory is set, to a
// log file inside it. The directory is created if missing.
func New(opts Options) (*Logger, error) {
	cores := []zapcore.Core{newConsoleCore(toZapLevel(opts.Level))}
	if opts.Directory != "" {
		if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
			return nil, fmt.Errorf("create logging directory %q: %w", opts.Directory, err)
		}
		name := opts.FileName
		if name == "" {
			name = defaultFileName
		}
		fc, err := newFileCore(filepath.Join(opts.Directory, name))
		if err != nil {
			return nil, err
		}
		cores = append(cores, fc)
	}
	return &Logger{SugaredLogger: zap.New(zapcore.NewTee(cores...)).Sugar()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Named returns a child logger tagged with the component name.
// A nil receiver yields a named no-op logger.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		l = Nop()
	}
	return &Logger{SugaredLogger: l.SugaredLogger.Named(name)}
}
