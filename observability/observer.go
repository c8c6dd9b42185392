// Package observability routes structured events to host-supplied sinks.
//
// Instrumented code raises events against an origin, a stable string naming
// the component that produced them. A Registry maps each origin to a severity
// threshold and a Sink. Events from origins nobody registered are dropped
// before any attribute is converted, so leaving instrumentation in place is
// cheap. Events that pass the threshold are normalized into an Event and
// handed to the sink synchronously on the calling goroutine.
//
// Events can be raised through Emit, through a *slog.Logger built on Handler,
// or through an OpenTelemetry log.Logger obtained from LoggerProvider.
//
//	observability.Register("net", observability.LevelWarn, sink)
//	observability.Emit(ctx, "net", "dial", observability.LevelError, "dial failed",
//	    observability.String("addr", addr), observability.Err("error", err))
package observability

import (
	"context"
	"encoding/json"
	"slices"
	"time"
)

// Sink receives canonical events for the origins it is registered under.
// OnEvent is called synchronously from whichever goroutine raised the event.
type Sink interface {
	OnEvent(ctx context.Context, event Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event)

func (f SinkFunc) OnEvent(ctx context.Context, event Event) { f(ctx, event) }

// Event is the canonical form of a structured event. Sinks receive it by value
// and must treat Fields as read-only.
type Event struct {
	ID        string    // UUIDv7 assigned on delivery.
	Level     Level     // Severity the event was raised at.
	Origin    string    // Component that raised the event.
	Name      string    // Call-site name, e.g. "event client.go:88".
	Message   string    // Value of the reserved "message" attribute.
	Fields    Fields    // Remaining attributes.
	Timestamp time.Time // When the event was raised.
}

// FieldsJSON renders Fields as a JSON object with sorted keys.
func (e Event) FieldsJSON() string {
	if len(e.Fields) == 0 {
		return "{}"
	}
	b, err := json.Marshal(e.Fields)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Fields holds extracted attributes. Values are int64, uint64, float64, bool,
// string, or nil for non-finite floats.
type Fields map[string]any

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
