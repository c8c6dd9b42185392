package observability

import (
	"context"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
)

// LoggerProvider exposes a Registry through the OpenTelemetry log API. The
// instrumentation scope name passed to Logger is used as the origin.
type LoggerProvider struct {
	embedded.LoggerProvider

	registry *Registry
}

// NewLoggerProvider creates a LoggerProvider raising events into registry.
// A nil registry selects the default registry.
func NewLoggerProvider(registry *Registry) *LoggerProvider {
	if registry == nil {
		registry = defaultRegistry
	}
	return &LoggerProvider{registry: registry}
}

// Logger returns a logger whose records are raised from origin name.
func (p *LoggerProvider) Logger(name string, _ ...otellog.LoggerOption) otellog.Logger {
	return &otelLogger{registry: p.registry, origin: name}
}

type otelLogger struct {
	embedded.Logger

	registry *Registry
	origin   string
}

func (l *otelLogger) Enabled(_ context.Context, param otellog.EnabledParameters) bool {
	return l.registry.Enabled(l.origin, FromSeverity(param.Severity))
}

// Emit raises rec as an event. A string body becomes the message; any other
// non-empty body is kept as the "body" field.
func (l *otelLogger) Emit(ctx context.Context, rec otellog.Record) {
	l.registry.Dispatch(ctx, Raw{
		Origin: l.origin,
		Name:   rec.EventName(),
		Level:  FromSeverity(rec.Severity()),
		Time:   rec.Timestamp(),
		Attrs: func(yield func(Attr) bool) {
			body := rec.Body()
			switch {
			case body.Kind() == otellog.KindString:
				if !yield(String(MessageKey, body.AsString())) {
					return
				}
			case !body.Empty():
				if !yield(FromOTelKeyValue(otellog.KeyValue{Key: "body", Value: body})) {
					return
				}
			}
			rec.WalkAttributes(func(kv otellog.KeyValue) bool {
				return yield(FromOTelKeyValue(kv))
			})
		},
	})
}
