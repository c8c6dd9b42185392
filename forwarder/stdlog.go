package forwarder

import (
	"bytes"
	"log"

	"github.com/tailored-agentic-units/logforward/observability"
)

// StdLogger returns a *log.Logger whose output is sent through f as records
// from origin at level, one record per line.
func (f *Forwarder) StdLogger(origin string, level observability.Level) *log.Logger {
	return log.New(&lineWriter{f: f, origin: origin, level: level}, "", 0)
}

// RedirectStdLog points the standard library's default logger at f.
func (f *Forwarder) RedirectStdLog(origin string, level observability.Level) {
	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(&lineWriter{f: f, origin: origin, level: level})
}

// RedirectStdLog points the standard library's default logger at the default
// Forwarder.
func RedirectStdLog(origin string, level observability.Level) {
	defaultForwarder.RedirectStdLog(origin, level)
}

type lineWriter struct {
	f      *Forwarder
	origin string
	level  observability.Level
}

func (w *lineWriter) Write(p []byte) (int, error) {
	n := len(p)
	if !w.f.Enabled(w.level) {
		return n, nil
	}
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		w.f.forward(Record{Level: w.level, Origin: w.origin, Message: string(line)})
	}
	return n, nil
}
