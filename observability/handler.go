package observability

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
)

// Handler is a slog.Handler that raises every record as a structured event
// from a fixed origin. Enabled consults the registry, so a *slog.Logger built
// on a Handler whose origin is unregistered skips record construction
// entirely.
//
//	logger := slog.New(observability.NewHandler(reg, "net"))
//	logger.Warn("retrying", "attempt", 3)
type Handler struct {
	registry *Registry
	origin   string
	attrs    []Attr
	group    string
}

// NewHandler creates a Handler raising events from origin into registry.
func NewHandler(registry *Registry, origin string) *Handler {
	return &Handler{registry: registry, origin: origin}
}

// Logger returns a slog.Logger raising events from origin into the default
// registry.
func Logger(origin string) *slog.Logger {
	return slog.New(NewHandler(defaultRegistry, origin))
}

// Origin returns the origin the handler raises events from.
func (h *Handler) Origin() string {
	return h.origin
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return h.registry.Enabled(h.origin, FromSlogLevel(level))
}

// Handle raises r as an event. The record message is the leading message
// attribute; handler attributes come next, then the record's own.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.registry.Dispatch(ctx, Raw{
		Origin: h.origin,
		Name:   eventName(r.PC),
		Level:  FromSlogLevel(r.Level),
		Time:   r.Time,
		Attrs: func(yield func(Attr) bool) {
			if r.Message != "" && !yield(String(MessageKey, r.Message)) {
				return
			}
			for _, a := range h.attrs {
				if !yield(a) {
					return
				}
			}
			r.Attrs(func(a slog.Attr) bool {
				return FromSlogAttr(h.group, a, yield)
			})
		},
	})
	return nil
}

// WithAttrs returns a copy of the handler with additional base attributes,
// converted once up front.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = append([]Attr{}, h.attrs...)
	for _, a := range attrs {
		FromSlogAttr(h.group, a, func(c Attr) bool {
			nh.attrs = append(nh.attrs, c)
			return true
		})
	}
	return &nh
}

// WithGroup returns a copy of the handler that prefixes later attribute keys
// with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	if h.group == "" {
		nh.group = name
	} else {
		nh.group = h.group + "." + name
	}
	return &nh
}

// eventName builds a call-site name such as "event client.go:88".
func eventName(pc uintptr) string {
	if pc == 0 {
		return DefaultEventName
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return DefaultEventName
	}
	return DefaultEventName + " " + filepath.Base(frame.File) + ":" + strconv.Itoa(frame.Line)
}
