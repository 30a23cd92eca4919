// Package applog provides the process-wide key/value logger shared by the
// server and the CLI. It writes to stderr by default and to a file when
// initialized with a path.
package applog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a small leveled key/value logger.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	file    *os.File
	enabled bool
}

// Log is the global logger instance.
var Log = &Logger{w: os.Stderr, enabled: true}

// Init redirects the global logger to the given file. An empty path keeps
// the stderr default.
func Init(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	Log.mu.Lock()
	Log.file = f
	Log.w = f
	Log.mu.Unlock()
	return nil
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetEnabled toggles output. Used by quiet mode.
func (l *Logger) SetEnabled(v bool) {
	l.mu.Lock()
	l.enabled = v
	l.mu.Unlock()
}

func (l *Logger) log(level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled || l.w == nil {
		return
	}

	line := fmt.Sprintf("%s [%s] %s", time.Now().Format("15:04:05.000"), level, msg)
	for i := 0; i < len(keyvals)-1; i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.w, line)
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) { l.log("DEBUG", msg, keyvals...) }

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) { l.log("INFO", msg, keyvals...) }

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) { l.log("WARN", msg, keyvals...) }

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) { l.log("ERROR", msg, keyvals...) }
