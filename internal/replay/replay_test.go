package replay_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/logforward/forwarder"
	"github.com/tailored-agentic-units/logforward/internal/replay"
	"github.com/tailored-agentic-units/logforward/observability"
)

type captureSink struct{ events []observability.Event }

func (c *captureSink) OnEvent(_ context.Context, e observability.Event) {
	c.events = append(c.events, e)
}

type captureLogger struct{ records []forwarder.Record }

func (c *captureLogger) Log(r forwarder.Record) { c.records = append(c.records, r) }

func setup(t *testing.T) (*observability.Registry, *forwarder.Forwarder, *captureSink, *captureLogger) {
	t.Helper()
	reg := observability.NewRegistry()
	fwd := forwarder.New(reg, forwarder.WithOrigins())
	sink := &captureSink{}
	logger := &captureLogger{}
	reg.Register("net", observability.LevelDebug, sink)
	fwd.SetLogger(logger)
	return reg, fwd, sink, logger
}

func TestRun(t *testing.T) {
	reg, fwd, sink, logger := setup(t)

	input := strings.Join([]string{
		`{"kind":"event","origin":"net","name":"dial","level":"error","message":"refused","fields":{"port":5432,"ratio":0.5,"tls":true,"peer":"db","tags":["a"]}}`,
		``,
		`{"origin":"net","message":"defaults"}`,
		`{"origin":"net","level":"trace","message":"filtered"}`,
		`{"origin":"elsewhere","level":"error","message":"unregistered"}`,
		`{"kind":"record","origin":"sync","level":"warn","message":"upload complete"}`,
		`   `,
	}, "\n")

	stats, err := replay.Run(context.Background(), strings.NewReader(input), reg, fwd)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := replay.Stats{Events: 4, Records: 1, Skipped: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	if len(sink.events) != 2 {
		t.Fatalf("sink received %d events, want 2", len(sink.events))
	}
	e := sink.events[0]
	if e.Name != "dial" || e.Level != observability.LevelError || e.Message != "refused" {
		t.Errorf("event = %+v", e)
	}
	fields := map[string]any{
		"port":  int64(5432),
		"ratio": 0.5,
		"tls":   true,
		"peer":  "db",
		"tags":  `["a"]`,
	}
	for k, v := range fields {
		if e.Fields[k] != v {
			t.Errorf("Fields[%q] = %#v, want %#v", k, e.Fields[k], v)
		}
	}

	if d := sink.events[1]; d.Level != observability.LevelInfo || d.Name != observability.DefaultEventName {
		t.Errorf("defaulted event = %+v", d)
	}

	if len(logger.records) != 1 {
		t.Fatalf("logger received %d records, want 1", len(logger.records))
	}
	r := logger.records[0]
	if r.Origin != "sync" || r.Level != observability.LevelWarn || r.Message != "upload complete" {
		t.Errorf("record = %+v", r)
	}
}

func TestRun_NumberKinds(t *testing.T) {
	reg, fwd, sink, _ := setup(t)

	input := `{"origin":"net","fields":{"big":18446744073709551615,"neg":-9223372036854775808,"huge":1e30,"frac":2.5}}`
	if _, err := replay.Run(context.Background(), strings.NewReader(input), reg, fwd); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[string]any{
		"big":  uint64(18446744073709551615),
		"neg":  int64(-9223372036854775808),
		"huge": 1e30,
		"frac": 2.5,
	}
	fields := sink.events[0].Fields
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("Fields[%q] = %#v, want %#v", k, fields[k], v)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"origin":`},
		{"unknown kind", `{"kind":"metric","origin":"net"}`},
		{"bad level", `{"origin":"net","level":"loud"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, fwd, _, _ := setup(t)
			input := `{"origin":"net","message":"ok"}` + "\n" + tt.input

			stats, err := replay.Run(context.Background(), strings.NewReader(input), reg, fwd)
			if !errors.Is(err, replay.ErrMalformedLine) {
				t.Fatalf("Run() error = %v, want ErrMalformedLine", err)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q does not name line 2", err)
			}
			if stats.Events != 1 {
				t.Errorf("stats.Events = %d, want 1", stats.Events)
			}
		})
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	reg, fwd, sink, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := replay.Run(ctx, strings.NewReader(`{"origin":"net"}`), reg, fwd)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(sink.events) != 0 {
		t.Errorf("sink received %d events after cancel", len(sink.events))
	}
}
