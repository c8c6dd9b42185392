package observability

import (
	"fmt"
	"log/slog"
	"strings"

	otellog "go.opentelemetry.io/otel/log"
)

// Level is event severity. Levels are ordered from most to least severe, so a
// lower value is more severe: LevelError < LevelWarn < ... < LevelTrace.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Levels lists every level from most to least severe.
var Levels = []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace}

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Valid reports whether l is one of the five defined levels.
func (l Level) Valid() bool {
	return l >= LevelError && l <= LevelTrace
}

// Enabled reports whether an event at level l passes a filter set to
// threshold, i.e. whether l is at least as severe as threshold.
func (l Level) Enabled(threshold Level) bool {
	return l <= threshold
}

// SeverityNumber maps the level to the low end of its OTel SeverityNumber range.
func (l Level) SeverityNumber() otellog.Severity {
	switch l {
	case LevelError:
		return otellog.SeverityError
	case LevelWarn:
		return otellog.SeverityWarn
	case LevelInfo:
		return otellog.SeverityInfo
	case LevelDebug:
		return otellog.SeverityDebug
	default:
		return otellog.SeverityTrace
	}
}

// SlogLevel maps this level to the corresponding slog.Level. Trace sits one
// slog step below Debug.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelError:
		return slog.LevelError
	case LevelWarn:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	case LevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelDebug - 4
	}
}

// MarshalText encodes the level as its severity text.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes severity text accepted by ParseLevel.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts "error", "warn", "info", "debug" or "trace" (any case)
// to a Level. "warning" is accepted for LevelWarn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// FromSlogLevel maps a slog.Level onto the five levels. Anything below
// slog.LevelDebug is Trace; anything above slog.LevelError is Error.
func FromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelDebug:
		return LevelTrace
	case level < slog.LevelInfo:
		return LevelDebug
	case level < slog.LevelWarn:
		return LevelInfo
	case level < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// FromSeverity maps an OTel SeverityNumber onto the five levels. Undefined
// severity is treated as Info and fatal severities as Error.
func FromSeverity(sev otellog.Severity) Level {
	switch {
	case sev == otellog.SeverityUndefined:
		return LevelInfo
	case sev < otellog.SeverityDebug:
		return LevelTrace
	case sev < otellog.SeverityInfo:
		return LevelDebug
	case sev < otellog.SeverityWarn:
		return LevelInfo
	case sev < otellog.SeverityError:
		return LevelWarn
	default:
		return LevelError
	}
}
