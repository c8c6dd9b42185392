package observability

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// sinkDirectory resolves the sink names used in configuration.
type sinkDirectory struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

func (d *sinkDirectory) get(name string) (Sink, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sink, ok := d.sinks[name]
	return sink, ok
}

func (d *sinkDirectory) set(name string, sink Sink) {
	if sink == nil {
		sink = NoOpSink{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.sinks[name] = sink
}

func (d *sinkDirectory) names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.sinks))
	for name := range d.sinks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var directory = &sinkDirectory{
	sinks: map[string]Sink{
		"noop": NoOpSink{},
		"slog": NewSlogSink(slog.Default()),
	},
}

// SinkByName returns the sink registered under name. "noop" and "slog"
// (over slog.Default) are always present unless replaced.
func SinkByName(name string) (Sink, error) {
	sink, ok := directory.get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSink, name)
	}
	return sink, nil
}

// RegisterSinkName makes sink selectable by name, replacing any previous
// sink of that name. A nil sink is stored as NoOpSink.
//
//	observability.RegisterSinkName("audit", auditSink)
func RegisterSinkName(name string, sink Sink) {
	directory.set(name, sink)
}

// SinkNames returns the registered sink names in sorted order.
func SinkNames() []string {
	return directory.names()
}
