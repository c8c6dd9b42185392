// Package replay routes NDJSON-encoded events and records through a registry
// and forwarder, one line at a time.
//
// Each line is an object:
//
//	{"kind":"event","origin":"net","name":"dial","level":"error","message":"refused","fields":{"port":5432}}
//	{"kind":"record","origin":"sync","level":"info","message":"upload complete"}
//
// kind defaults to "event" and level to "info". Integral numbers decode as
// int64, or uint64 above math.MaxInt64; other numbers as float64.
package replay

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/tailored-agentic-units/logforward/forwarder"
	"github.com/tailored-agentic-units/logforward/observability"
)

// ErrMalformedLine is returned for lines that are not valid input objects.
var ErrMalformedLine = errors.New("malformed line")

// Stats counts replayed lines.
type Stats struct {
	Events  int
	Records int
	Skipped int
}

type input struct {
	Kind    string                     `json:"kind"`
	Origin  string                     `json:"origin"`
	Name    string                     `json:"name"`
	Level   string                     `json:"level"`
	Message string                     `json:"message"`
	Fields  map[string]json.RawMessage `json:"fields"`
}

// Run reads lines from r until EOF, raising events into reg and records into
// fwd. It stops at the first malformed line or when ctx is done.
func Run(ctx context.Context, r io.Reader, reg *observability.Registry, fwd *forwarder.Forwarder) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for n := 1; scanner.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			stats.Skipped++
			continue
		}

		var in input
		if err := json.Unmarshal(raw, &in); err != nil {
			return stats, fmt.Errorf("%w %d: %w", ErrMalformedLine, n, err)
		}

		level := observability.LevelInfo
		if in.Level != "" {
			parsed, err := observability.ParseLevel(in.Level)
			if err != nil {
				return stats, fmt.Errorf("%w %d: %w", ErrMalformedLine, n, err)
			}
			level = parsed
		}

		switch in.Kind {
		case "", "event":
			attrs, err := decodeFields(in.Fields)
			if err != nil {
				return stats, fmt.Errorf("%w %d: %w", ErrMalformedLine, n, err)
			}
			reg.Emit(ctx, in.Origin, in.Name, level, in.Message, attrs...)
			stats.Events++
		case "record":
			fwd.Log(level, in.Origin, in.Message)
			stats.Records++
		default:
			return stats, fmt.Errorf("%w %d: unknown kind %q", ErrMalformedLine, n, in.Kind)
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read input: %w", err)
	}
	return stats, nil
}

// decodeFields converts JSON field values to attributes in sorted key order.
func decodeFields(fields map[string]json.RawMessage) ([]observability.Attr, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	attrs := make([]observability.Attr, 0, len(keys))
	for _, k := range keys {
		a, err := decodeValue(k, fields[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func decodeValue(key string, raw json.RawMessage) (observability.Attr, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return observability.Attr{}, err
	}

	switch v := v.(type) {
	case string:
		return observability.String(key, v), nil
	case bool:
		return observability.Bool(key, v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return observability.Int64(key, i), nil
		}
		if u, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return observability.Uint64(key, u), nil
		}
		f, err := v.Float64()
		if err != nil {
			return observability.Attr{}, err
		}
		return observability.Float64(key, f), nil
	default:
		return observability.Debug(key, string(raw)), nil
	}
}
