package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Options selects the console level and an optional log file.
type Options struct {
	Level     string
	Directory string // empty disables file logging
	FileName  string
}

// Get returns a singleton console logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the level
// and return the already initialized instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(Options{Level: level})
	})
	return globalLogger
}

// Init replaces the singleton with a logger built from opts. It is meant to be
// called once by the CLI after configuration is loaded.
func Init(opts Options) (*Logger, error) {
	l, err := New(opts)
	if err != nil {
		return nil, err
	}
	once.Do(func() {})
	globalLogger = l
	return l, nil
}
