package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrEmptyOrigin   = errors.New("origin is empty")
	ErrInvalidFormat = errors.New("invalid output format")
)
