// Package logger provides the process-wide zap logger.
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

// FileOptions configures the rotating JSON log file. An empty Path disables it.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Init builds the process logger once. Later calls, and calls to Get, return
// the already initialized instance.
func Init(level string, file FileOptions) *Logger {
	once.Do(func() {
		globalLogger = New(level, file)
	})
	return globalLogger
}

// Get returns the process logger, initializing a console-only logger at the
// given level if Init has not run yet.
func Get(level string) *Logger {
	return Init(level, FileOptions{})
}

// Nop returns a logger that discards everything; handy in tests.
func Nop() *Logger {
	return newNopLogger()
}
