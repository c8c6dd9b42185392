package observability

import (
	"encoding/base64"
	"fmt"
	"iter"
	"log/slog"
	"math"
	"time"

	otellog "go.opentelemetry.io/otel/log"
)

// MessageKey is the reserved attribute key holding an event's message.
const MessageKey = "message"

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindString Kind = iota
	KindInt64
	KindUint64
	KindFloat64
	KindBool
	KindError
	KindDebug
)

// Value is one attribute value from the closed set of kinds the extractor
// understands. The zero Value is an empty string.
type Value struct {
	kind Kind
	num  uint64
	str  string
	any  any
}

// Attr is a named attribute raised with an event.
type Attr struct {
	Key   string
	Value Value
}

// String returns an Attr for a string value.
func String(key, v string) Attr { return Attr{key, Value{kind: KindString, str: v}} }

// Int returns an Attr for an int, stored as int64.
func Int(key string, v int) Attr { return Int64(key, int64(v)) }

// Int64 returns an Attr for an int64 value.
func Int64(key string, v int64) Attr { return Attr{key, Value{kind: KindInt64, num: uint64(v)}} }

// Uint64 returns an Attr for a uint64 value.
func Uint64(key string, v uint64) Attr { return Attr{key, Value{kind: KindUint64, num: v}} }

// Float64 returns an Attr for a float64 value.
func Float64(key string, v float64) Attr {
	return Attr{key, Value{kind: KindFloat64, num: math.Float64bits(v)}}
}

// Bool returns an Attr for a bool value.
func Bool(key string, v bool) Attr {
	var n uint64
	if v {
		n = 1
	}
	return Attr{key, Value{kind: KindBool, num: n}}
}

// Err records an error by its Error text. Nil errors, typed or not, render
// as "<nil>".
func Err(key string, err error) Attr { return Attr{key, Value{kind: KindError, any: err}} }

// Debug records any value by its fmt representation.
func Debug(key string, v any) Attr { return Attr{key, Value{kind: KindDebug, any: v}} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the textual form of string-like values (string, error and
// debug kinds). ok is false for numeric and boolean values.
func (v Value) Text() (s string, ok bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindError:
		return fmt.Sprint(v.any), true
	case KindDebug:
		return fmt.Sprintf("%+v", v.any), true
	default:
		return "", false
	}
}

// Any converts v into its JSON-like form: int64, uint64, float64, bool or
// string. Non-finite floats have no JSON form and become nil.
func (v Value) Any() any {
	switch v.kind {
	case KindInt64:
		return int64(v.num)
	case KindUint64:
		return v.num
	case KindFloat64:
		f := math.Float64frombits(v.num)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case KindBool:
		return v.num == 1
	default:
		s, _ := v.Text()
		return s
	}
}

// Extract walks attrs in declaration order. A string-like attribute under
// MessageKey sets message; every other attribute lands in fields. Repeated
// keys keep the last value.
func Extract(attrs iter.Seq[Attr]) (message string, fields Fields) {
	fields = Fields{}
	if attrs == nil {
		return "", fields
	}
	for a := range attrs {
		if a.Key == MessageKey {
			if s, ok := a.Value.Text(); ok {
				message = s
				continue
			}
		}
		fields[a.Key] = a.Value.Any()
	}
	return message, fields
}

// FromSlogAttr converts a slog attribute. Groups are flattened into several
// attributes with dot-joined keys; empty groups yield nothing.
// Attributes with an empty key and zero value are dropped.
func FromSlogAttr(prefix string, a slog.Attr, yield func(Attr) bool) bool {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return true
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + a.Key
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		// An inline group (empty key) keeps the parent prefix.
		next := key
		if a.Key == "" {
			next = prefix
		}
		for _, ga := range a.Value.Group() {
			if !FromSlogAttr(next, ga, yield) {
				return false
			}
		}
		return true
	case slog.KindString:
		return yield(String(key, a.Value.String()))
	case slog.KindInt64:
		return yield(Int64(key, a.Value.Int64()))
	case slog.KindUint64:
		return yield(Uint64(key, a.Value.Uint64()))
	case slog.KindFloat64:
		return yield(Float64(key, a.Value.Float64()))
	case slog.KindBool:
		return yield(Bool(key, a.Value.Bool()))
	case slog.KindDuration:
		return yield(Int64(key, int64(a.Value.Duration())))
	case slog.KindTime:
		return yield(String(key, a.Value.Time().Format(time.RFC3339Nano)))
	default:
		if err, ok := a.Value.Any().(error); ok {
			return yield(Err(key, err))
		}
		return yield(Debug(key, a.Value.Any()))
	}
}

// FromOTelKeyValue converts an OTel log attribute. Bytes are base64 encoded;
// slices, maps and empty values fall back to their text form.
func FromOTelKeyValue(kv otellog.KeyValue) Attr {
	v := kv.Value
	switch v.Kind() {
	case otellog.KindString:
		return String(kv.Key, v.AsString())
	case otellog.KindInt64:
		return Int64(kv.Key, v.AsInt64())
	case otellog.KindFloat64:
		return Float64(kv.Key, v.AsFloat64())
	case otellog.KindBool:
		return Bool(kv.Key, v.AsBool())
	case otellog.KindBytes:
		return String(kv.Key, base64.StdEncoding.EncodeToString(v.AsBytes()))
	default:
		return Debug(kv.Key, v.String())
	}
}
