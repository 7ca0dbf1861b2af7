package logger

import (
	"sync"
)

// Level strings accepted from configuration (`log.level`).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	instance *Logger
	once     sync.Once
)

// Get returns the process-wide logger. The first caller fixes the level
// (normally from config); later calls ignore their argument and return the
// same instance.
func Get(level string) *Logger {
	once.Do(func() {
		instance = newZapLogger(level)
	})
	return instance
}
