package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"pgregory.net/rapid"

	"github.com/tailored-agentic-units/logforward/observability"
)

func TestDispatch_UnregisteredOriginIsNoOp(t *testing.T) {
	reg := observability.NewRegistry()
	sink := &captureSink{}
	reg.Register("other", observability.LevelTrace, sink)

	visited := false
	reg.Dispatch(context.Background(), observability.Raw{
		Origin: "net",
		Level:  observability.LevelError,
		Attrs: func(yield func(observability.Attr) bool) {
			visited = true
		},
	})

	if visited {
		t.Error("attributes were visited for an unregistered origin")
	}
	if sink.Len() != 0 {
		t.Errorf("sink received %d events, want 0", sink.Len())
	}
	if m := reg.Metrics(); m.Delivered != 0 || m.Filtered != 0 {
		t.Errorf("metrics = %+v, want zero", m)
	}
}

func TestDispatch_ThresholdScenario(t *testing.T) {
	reg := observability.NewRegistry()
	sink := &captureSink{}
	reg.Register("net", observability.LevelWarn, sink)
	ctx := context.Background()

	reg.Emit(ctx, "net", "dial", observability.LevelInfo, "connecting")
	if sink.Len() != 0 {
		t.Fatalf("Info event delivered at Warn threshold")
	}

	reg.Emit(ctx, "net", "dial", observability.LevelError, "refused", observability.Int("port", 5432))
	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(events))
	}

	e := events[0]
	if e.Origin != "net" || e.Name != "dial" || e.Level != observability.LevelError {
		t.Errorf("event = %+v", e)
	}
	if e.Message != "refused" {
		t.Errorf("Message = %q, want %q", e.Message, "refused")
	}
	if e.Fields["port"] != int64(5432) {
		t.Errorf("Fields[port] = %#v, want int64(5432)", e.Fields["port"])
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", e.ID, err)
	}
	if e.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}

	m := reg.Metrics()
	if m.Delivered != 1 || m.Filtered != 1 {
		t.Errorf("metrics = %+v, want 1 delivered and 1 filtered", m)
	}
}

func TestDispatch_CanonicalEvent(t *testing.T) {
	reg := observability.NewRegistry()
	sink := &captureSink{}
	reg.Register("first_target", observability.LevelInfo, sink)
	reg.Register("second_target", observability.LevelInfo, sink)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.Dispatch(context.Background(), observability.Raw{
		Origin: "first_target",
		Level:  observability.LevelInfo,
		Time:   ts,
		Attrs: func(yield func(observability.Attr) bool) {
			_ = yield(observability.Int("extra", -1)) &&
				yield(observability.String("message", "event message")) &&
				yield(observability.Err("cause", errors.New("timeout")))
		},
	})

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(events))
	}
	e := events[0]
	if e.Origin != "first_target" {
		t.Errorf("Origin = %q", e.Origin)
	}
	if e.Name != observability.DefaultEventName {
		t.Errorf("Name = %q, want %q", e.Name, observability.DefaultEventName)
	}
	if e.Message != "event message" {
		t.Errorf("Message = %q", e.Message)
	}
	if !e.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, ts)
	}
	if got, want := e.FieldsJSON(), `{"cause":"timeout","extra":-1}`; got != want {
		t.Errorf("FieldsJSON() = %s, want %s", got, want)
	}
}

func TestEmit_MessageAttrOverridesArgument(t *testing.T) {
	reg := observability.NewRegistry()
	sink := &captureSink{}
	reg.Register("net", observability.LevelTrace, sink)

	reg.Emit(context.Background(), "net", "", observability.LevelInfo, "from argument",
		observability.String("message", "from attr"))

	if got := sink.Events()[0].Message; got != "from attr" {
		t.Errorf("Message = %q, want %q", got, "from attr")
	}
}

func TestEmit_TypedNilErrorFallsBackToText(t *testing.T) {
	reg := observability.NewRegistry()
	sink := &captureSink{}
	reg.Register("net", observability.LevelTrace, sink)

	var cause *pathError
	reg.Emit(context.Background(), "net", "", observability.LevelError, "dial failed",
		observability.Err("error", cause))

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("sink received %d events, want 1", len(events))
	}
	if got := events[0].Fields["error"]; got != "<nil>" {
		t.Errorf("Fields[error] = %#v, want %q", got, "<nil>")
	}
}

func TestEvent_FieldsJSON_Empty(t *testing.T) {
	if got := (observability.Event{}).FieldsJSON(); got != "{}" {
		t.Errorf("FieldsJSON() = %s, want {}", got)
	}
}

func TestDefaultRegistry(t *testing.T) {
	sink := &captureSink{}
	observability.Register("default-registry-test", observability.LevelDebug, sink)
	t.Cleanup(func() { observability.Unregister("default-registry-test") })

	observability.Emit(context.Background(), "default-registry-test", "", observability.LevelDebug, "hello")
	observability.Emit(context.Background(), "default-registry-test", "", observability.LevelTrace, "too verbose")

	if sink.Len() != 1 {
		t.Errorf("sink received %d events, want 1", sink.Len())
	}
}

// A registered sink is called iff the event level is at least as severe as
// the registered threshold.
func TestProperty_DeliveredIffWithinThreshold(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := observability.NewRegistry()
		sink := &captureSink{}
		origin := rapid.StringMatching(`[a-z_]{1,12}`).Draw(rt, "origin")
		threshold := rapid.SampledFrom(observability.Levels).Draw(rt, "threshold")
		level := rapid.SampledFrom(observability.Levels).Draw(rt, "level")

		reg.Register(origin, threshold, sink)
		reg.Emit(context.Background(), origin, "", level, "msg")

		want := 0
		if level <= threshold {
			want = 1
		}
		if got := sink.Len(); got != want {
			rt.Errorf("level %v threshold %v: delivered %d, want %d", level, threshold, got, want)
		}
	})
}

// Events raised at origins nobody registered never reach any sink.
func TestProperty_UnregisteredOriginNeverDelivers(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		reg := observability.NewRegistry()
		sink := &captureSink{}
		reg.Register("registered", observability.LevelTrace, sink)

		origin := rapid.StringMatching(`[a-z]{1,8}`).Filter(func(s string) bool {
			return s != "registered"
		}).Draw(rt, "origin")
		level := rapid.SampledFrom(observability.Levels).Draw(rt, "level")

		reg.Emit(context.Background(), origin, "", level, "msg")
		if sink.Len() != 0 {
			rt.Errorf("event at unregistered origin %q delivered", origin)
		}
	})
}
