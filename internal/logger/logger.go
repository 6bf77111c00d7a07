// Package logger provides leveled logging to stderr for the region-clip-mcp
// server and CLI. Stdout carries the MCP protocol, so nothing here ever
// writes to it.
//
// Debug, Info and Warn are printed only in verbose mode, which is enabled by
// the --verbose flag, the log.verbose config key or REGION_MCP_LOG_LEVEL=debug.
// Error is always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// EnvLogLevel is the environment variable that enables debug logging.
const EnvLogLevel = "REGION_MCP_LOG_LEVEL"

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

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// VerboseFromEnv reports whether EnvLogLevel asks for debug output.
func VerboseFromEnv() bool {
	return strings.EqualFold(os.Getenv(EnvLogLevel), "debug")
}

// SetOutput sets the output writer. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(false, "DEBUG", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(false, "INFO", format, args...)
}

// Warn prints a warning if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(false, "WARN", format, args...)
}

// Error prints an error message regardless of verbose mode.
func Error(format string, args ...any) {
	logf(true, "ERROR", format, args...)
}

func logf(always bool, level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
}
