// Package output writes facade records and structured events to an
// io.Writer as styled text or JSON lines.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/logforward/forwarder"
	"github.com/tailored-agentic-units/logforward/observability"
)

// Format selects the line encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Writer serializes records and events onto w. It implements both
// forwarder.Logger and observability.Sink; writes are serialized by a mutex
// so one Writer can back every origin.
type Writer struct {
	w      io.Writer
	format Format
	now    func() time.Time
	styles map[observability.Level]lipgloss.Style
	origin lipgloss.Style
	mu     sync.Mutex
}

// New creates a Writer. Unknown formats fall back to text.
func New(w io.Writer, format Format) *Writer {
	r := lipgloss.NewRenderer(w)
	badge := r.NewStyle().Bold(true).Width(5)
	return &Writer{
		w:      w,
		format: format,
		now:    time.Now,
		styles: map[observability.Level]lipgloss.Style{
			observability.LevelError: badge.Foreground(lipgloss.Color("196")),
			observability.LevelWarn:  badge.Foreground(lipgloss.Color("226")),
			observability.LevelInfo:  badge.Foreground(lipgloss.Color("46")),
			observability.LevelDebug: badge.Foreground(lipgloss.Color("62")),
			observability.LevelTrace: badge.Foreground(lipgloss.Color("240")),
		},
		origin: r.NewStyle().Foreground(lipgloss.Color("141")),
	}
}

type line struct {
	Time    time.Time      `json:"time"`
	Kind    string         `json:"kind"`
	Level   string         `json:"level"`
	Origin  string         `json:"origin"`
	Name    string         `json:"name,omitempty"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Log writes a facade record.
func (w *Writer) Log(record forwarder.Record) {
	w.write(line{
		Time:    w.now(),
		Kind:    "record",
		Level:   record.Level.String(),
		Origin:  record.Origin,
		Message: record.Message,
	}, record.Level)
}

// OnEvent writes a structured event.
func (w *Writer) OnEvent(_ context.Context, event observability.Event) {
	w.write(line{
		Time:    event.Timestamp,
		Kind:    "event",
		Level:   event.Level.String(),
		Origin:  event.Origin,
		Name:    event.Name,
		ID:      event.ID,
		Message: event.Message,
		Fields:  event.Fields,
	}, event.Level)
}

func (w *Writer) write(l line, level observability.Level) {
	var out string
	if w.format == FormatJSON {
		b, err := json.Marshal(l)
		if err != nil {
			return
		}
		out = string(b) + "\n"
	} else {
		out = w.text(l, level)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = io.WriteString(w.w, out)
}

func (w *Writer) text(l line, level observability.Level) string {
	var sb strings.Builder
	sb.WriteString(l.Time.Format(time.RFC3339))
	sb.WriteByte(' ')
	sb.WriteString(w.styles[level].Render(l.Level))
	sb.WriteByte(' ')
	sb.WriteString(w.origin.Render(l.Origin))
	if l.Name != "" {
		sb.WriteString(" [" + l.Name + "]")
	}
	sb.WriteString(": ")
	sb.WriteString(l.Message)
	for _, k := range observability.Fields(l.Fields).Keys() {
		fmt.Fprintf(&sb, " %s=%v", k, l.Fields[k])
	}
	sb.WriteByte('\n')
	return sb.String()
}
