package forwarder

import "github.com/tailored-agentic-units/logforward/observability"

// Record is a facade log record: a level, the origin that produced it and a
// message. It carries no structured fields.
type Record struct {
	Level   observability.Level
	Origin  string
	Message string
}

// Logger is the host-supplied consumer of facade records. Log is called
// synchronously from whichever goroutine produced the record.
type Logger interface {
	Log(record Record)
}

// LoggerFunc adapts a function to the Logger interface.
type LoggerFunc func(record Record)

func (f LoggerFunc) Log(record Record) { f(record) }
