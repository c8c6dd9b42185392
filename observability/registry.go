package observability

import (
	"slices"
	"sync"
)

// Entry is a registered routing rule: events at least as severe as Threshold
// are delivered to Sink.
type Entry struct {
	Threshold Level
	Sink      Sink
}

// Registry maps origins to entries. Entries are replaced whole under the
// write lock, so lookups observe either the old or the new entry. Safe for
// concurrent use.
type Registry struct {
	entries map[string]Entry
	mu      sync.RWMutex
	metrics Metrics
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the package-level
// functions.
func Default() *Registry {
	return defaultRegistry
}

// Register installs or replaces the entry for origin. A nil sink is stored as
// NoOpSink.
func (r *Registry) Register(origin string, threshold Level, sink Sink) {
	if sink == nil {
		sink = NoOpSink{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[origin] = Entry{Threshold: threshold, Sink: sink}
}

// Unregister removes the entry for origin. Missing origins are ignored.
func (r *Registry) Unregister(origin string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, origin)
}

// Lookup returns a copy of the entry registered for origin.
func (r *Registry) Lookup(origin string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.entries[origin]
	return e, exists
}

// Origins returns the registered origins in sorted order.
func (r *Registry) Origins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	origins := make([]string, 0, len(r.entries))
	for origin := range r.entries {
		origins = append(origins, origin)
	}
	slices.Sort(origins)
	return origins
}

// Metrics returns a snapshot of the registry's delivery counters.
func (r *Registry) Metrics() MetricsSnapshot {
	return r.metrics.Snapshot()
}

// Register installs or replaces the entry for origin in the default registry.
func Register(origin string, threshold Level, sink Sink) {
	defaultRegistry.Register(origin, threshold, sink)
}

// Unregister removes origin from the default registry.
func Unregister(origin string) {
	defaultRegistry.Unregister(origin)
}
