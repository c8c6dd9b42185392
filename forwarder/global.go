package forwarder

import "github.com/tailored-agentic-units/logforward/observability"

var defaultForwarder = New(observability.Default())

// Default returns the process-wide Forwarder, coupled into
// observability.Default.
func Default() *Forwarder {
	return defaultForwarder
}

// SetLogger installs logger on the default Forwarder. Pass nil to disable.
func SetLogger(logger Logger) {
	defaultForwarder.SetLogger(logger)
}

// SetMaxLevel sets the default Forwarder's filter.
func SetMaxLevel(level observability.Level) {
	defaultForwarder.SetMaxLevel(level)
}

// Log sends a record through the default Forwarder.
func Log(level observability.Level, origin, message string) {
	defaultForwarder.Log(level, origin, message)
}

// Logf sends a formatted record through the default Forwarder.
func Logf(level observability.Level, origin, format string, args ...any) {
	defaultForwarder.Logf(level, origin, format, args...)
}
