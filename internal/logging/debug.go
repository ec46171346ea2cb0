package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// SetOutput redirects debug and warning output. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := output
	output = w
	return prev
}

// DebugEnabled returns true if debug mode is enabled via TF_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TF_DEBUG") != ""
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		write("debug: " + fmt.Sprintf(format, args...))
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		write("debug: " + fmt.Sprintln(args...))
	}
}

// Warnf reports a non-critical failure that the caller has decided to swallow.
// Warnings are always written.
func Warnf(format string, args ...interface{}) {
	write("warning: " + fmt.Sprintf(format, args...))
}

func write(msg string) {
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg += "\n"
	}
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(output, msg)
}
