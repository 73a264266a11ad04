// Package logger provides verbose diagnostics for DocDesk. The TUI owns
// stdout, so everything here goes to stderr and stays silent unless the
// user opted in with --verbose.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr; tests swap in a buffer.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a debug message when verbose mode is enabled.
func Debug(format string, args ...any) {
	emit("DEBUG", format, args...)
}

// Info prints an informational message when verbose mode is enabled.
func Info(format string, args ...any) {
	emit("INFO", format, args...)
}

// Warn prints a warning. Warnings are emitted regardless of verbose mode,
// since they usually describe dropped data (for example a malformed
// citation payload that never became a navigation signal).
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, "[WARN] "+format+"\n", args...)
}

func emit(level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
}
