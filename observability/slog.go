package observability

import (
	"context"
	"log/slog"
)

// SlogSink writes canonical events to a slog.Logger. The event level is
// mapped via SlogLevel, the message becomes the log message, and fields are
// flattened as top-level attributes after origin and name.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a SlogSink that writes to the given logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) OnEvent(ctx context.Context, event Event) {
	attrs := make([]slog.Attr, 0, len(event.Fields)+2)
	attrs = append(attrs,
		slog.String("origin", event.Origin),
		slog.String("name", event.Name),
	)
	for _, k := range event.Fields.Keys() {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	s.logger.LogAttrs(ctx, event.Level.SlogLevel(), event.Message, attrs...)
}
