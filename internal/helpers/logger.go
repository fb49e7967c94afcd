package helpers

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger provides simplified logging with prefixes
type Logger struct {
	prefix string
	out    *log.Logger
	debug  bool
}

// NewLogger creates a new logger with a prefix writing to stderr
func NewLogger(prefix string) *Logger {
	return NewLoggerTo(os.Stderr, prefix)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, prefix string) *Logger {
	return &Logger{
		prefix: "[" + prefix + "]",
		out:    log.New(w, "", log.LstdFlags),
	}
}

// SetDebug toggles Debug output
func (l *Logger) SetDebug(enabled bool) {
	l.debug = enabled
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...interface{}) {
	l.out.Printf("%s INFO: %s%s", l.prefix, msg, formatArgs(args))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.out.Printf("%s WARN: %s%s", l.prefix, msg, formatArgs(args))
}

// Error logs an error message
func (l *Logger) Error(msg string, err error, args ...interface{}) {
	l.out.Printf("%s ERROR: %s - %v%s", l.prefix, msg, err, formatArgs(args))
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.out.Printf("%s DEBUG: %s%s", l.prefix, msg, formatArgs(args))
}

// formatArgs renders key/value pairs as " k=v k=v"
func formatArgs(args []interface{}) string {
	if len(args) == 0 {
		return ""
	}

	var sb strings.Builder
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&sb, " %v", args[i])
		}
	}
	return sb.String()
}
