// Package logging provides the process-wide debug/info/warn/error logger
// shared by crawlers and the orchestrator.
package logging

import (
	"io"
	"log"
	"os"
)

var (
	// Logger is the global logger used by every component in this module.
	Logger *log.Logger

	// Verbose controls whether Debugf/Infof messages are printed.
	Verbose bool
)

func init() {
	Logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	Verbose = os.Getenv("DEPSCOPE_VERBOSE") == "1"
}

// SetVerbose enables or disables verbose logging at runtime.
func SetVerbose(enabled bool) {
	Verbose = enabled
}

// SetOutput redirects logger output (useful for testing).
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

func Debugf(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[DEBUG] "+format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if Verbose {
		Logger.Printf("[INFO] "+format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	Logger.Printf("[WARN] "+format, args...)
}

func Errorf(format string, args ...interface{}) {
	Logger.Printf("[ERROR] "+format, args...)
}
