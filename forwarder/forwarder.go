// Package forwarder bridges the simple facade logging surface (level, origin,
// message) to a single host-supplied Logger.
//
// Installing a logger also subscribes a fixed set of coupling origins in the
// observability registry, so structured events raised by those origins reach
// the same logger as facade records.
//
//	forwarder.SetMaxLevel(observability.LevelInfo)
//	forwarder.SetLogger(hostLogger)
//	forwarder.Log(observability.LevelWarn, "sync", "retrying upload")
package forwarder

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tailored-agentic-units/logforward/observability"
)

// DefaultMaxLevel is applied by SetLogger when no level was set explicitly.
const DefaultMaxLevel = observability.LevelDebug

// DefaultCouplingOrigins are the origins whose structured events are routed to
// the installed logger.
var DefaultCouplingOrigins = []string{"autofill", "tabs"}

// Option configures a Forwarder.
type Option func(*Forwarder)

// WithOrigins replaces the coupling origins.
func WithOrigins(origins ...string) Option {
	return func(f *Forwarder) { f.origins = slices.Clone(origins) }
}

// Forwarder delivers facade records to at most one Logger. Safe for
// concurrent use.
type Forwarder struct {
	registry *observability.Registry
	origins  []string

	logger Logger
	mu     sync.RWMutex

	// Written under mu, read without it.
	maxLevel atomic.Int32
	explicit atomic.Bool
}

// New creates a Forwarder that couples its origins into registry. A nil
// registry selects observability.Default.
func New(registry *observability.Registry, opts ...Option) *Forwarder {
	if registry == nil {
		registry = observability.Default()
	}
	f := &Forwarder{
		registry: registry,
		origins:  slices.Clone(DefaultCouplingOrigins),
	}
	f.maxLevel.Store(int32(DefaultMaxLevel))

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetLogger installs logger as the only consumer of records, replacing any
// previous one. A nil logger disables forwarding. The coupling origins are
// (re)registered at LevelTrace; their sink always forwards to whichever
// logger is installed at delivery time, so nothing reaches a replaced logger.
func (f *Forwarder) SetLogger(logger Logger) {
	f.mu.Lock()
	if !f.explicit.Load() {
		f.maxLevel.Store(int32(DefaultMaxLevel))
	}
	f.logger = logger
	f.mu.Unlock()

	sink := couplingSink{f}
	for _, origin := range f.origins {
		f.registry.Register(origin, observability.LevelTrace, sink)
	}
}

// SetMaxLevel sets the facade filter. Records less severe than level are
// dropped. Once set, SetLogger no longer applies DefaultMaxLevel.
func (f *Forwarder) SetMaxLevel(level observability.Level) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.maxLevel.Store(int32(level))
	f.explicit.Store(true)
}

// MaxLevel returns the current facade filter.
func (f *Forwarder) MaxLevel() observability.Level {
	return observability.Level(f.maxLevel.Load())
}

// Enabled reports whether a record at level passes the facade filter.
func (f *Forwarder) Enabled(level observability.Level) bool {
	return level.Enabled(f.MaxLevel())
}

// Origins returns the coupling origins.
func (f *Forwarder) Origins() []string {
	return slices.Clone(f.origins)
}

// Log delivers a record to the installed logger when level passes the facade
// filter. Without a logger the call does nothing.
func (f *Forwarder) Log(level observability.Level, origin, message string) {
	if !f.Enabled(level) {
		return
	}
	f.forward(Record{Level: level, Origin: origin, Message: message})
}

// Logf is Log with fmt.Sprintf formatting, done only when the record passes
// the filter.
func (f *Forwarder) Logf(level observability.Level, origin, format string, args ...any) {
	if !f.Enabled(level) {
		return
	}
	f.forward(Record{Level: level, Origin: origin, Message: fmt.Sprintf(format, args...)})
}

// forward hands record to the current logger outside the lock.
func (f *Forwarder) forward(record Record) {
	f.mu.RLock()
	logger := f.logger
	f.mu.RUnlock()

	if logger == nil {
		return
	}
	logger.Log(record)
}

// couplingSink turns structured events into records, dropping name and
// fields. The facade filter is not applied: coupled origins are registered at
// LevelTrace and the registry threshold is the only filter.
type couplingSink struct {
	f *Forwarder
}

func (s couplingSink) OnEvent(_ context.Context, event observability.Event) {
	s.f.forward(Record{
		Level:   event.Level,
		Origin:  event.Origin,
		Message: event.Message,
	})
}
