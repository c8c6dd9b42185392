package observability

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"
)

// DefaultEventName names events whose producer supplies no name.
const DefaultEventName = "event"

// Raw is a structured event as raised by a producer, before routing.
// Attrs is only iterated when the event is going to be delivered.
type Raw struct {
	Origin string
	Name   string
	Level  Level
	Time   time.Time
	Attrs  iter.Seq[Attr]
}

// Enabled reports whether an event at level from origin would be delivered.
// It performs no allocation.
func (r *Registry) Enabled(origin string, level Level) bool {
	e, exists := r.Lookup(origin)
	return exists && level.Enabled(e.Threshold)
}

// Dispatch routes raw to the sink registered for its origin. Unregistered
// origins return immediately; events less severe than the entry's threshold
// are dropped. Delivery happens on the calling goroutine after the registry
// lock is released, so the sink may itself register or unregister origins.
func (r *Registry) Dispatch(ctx context.Context, raw Raw) {
	entry, exists := r.Lookup(raw.Origin)
	if !exists {
		return
	}
	if !raw.Level.Enabled(entry.Threshold) {
		r.metrics.RecordFiltered()
		return
	}

	message, fields := Extract(raw.Attrs)

	name := raw.Name
	if name == "" {
		name = DefaultEventName
	}
	ts := raw.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	event := Event{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Level:     raw.Level,
		Origin:    raw.Origin,
		Name:      name,
		Message:   message,
		Fields:    fields,
		Timestamp: ts,
	}

	r.metrics.RecordDelivered()
	entry.Sink.OnEvent(ctx, event)
}

// Emit raises a structured event. A non-empty message is recorded as the
// leading MessageKey attribute, so a later "message" attr overrides it.
func (r *Registry) Emit(ctx context.Context, origin, name string, level Level, message string, attrs ...Attr) {
	r.Dispatch(ctx, Raw{
		Origin: origin,
		Name:   name,
		Level:  level,
		Attrs: func(yield func(Attr) bool) {
			if message != "" && !yield(String(MessageKey, message)) {
				return
			}
			for _, a := range attrs {
				if !yield(a) {
					return
				}
			}
		},
	})
}

// Emit raises a structured event on the default registry.
func Emit(ctx context.Context, origin, name string, level Level, message string, attrs ...Attr) {
	defaultRegistry.Emit(ctx, origin, name, level, message, attrs...)
}
