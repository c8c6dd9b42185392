package observability

import "errors"

// Sentinel errors for level parsing and sink lookup.
var (
	// ErrInvalidLevel is returned when severity text or a numeric level does
	// not name one of the five levels.
	ErrInvalidLevel = errors.New("invalid level")
	ErrUnknownSink  = errors.New("unknown sink")
)
