// Package config loads routing configuration: the facade filter level, the
// coupling origins, per-origin sink thresholds and the output format.
package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/logforward/forwarder"
	"github.com/tailored-agentic-units/logforward/observability"
)

// EnvPrefix prefixes environment overrides, e.g. LOGFORWARD_MAX_LEVEL.
const EnvPrefix = "LOGFORWARD"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds routing parameters.
type Config struct {
	MaxLevel string       `mapstructure:"max_level" json:"max_level,omitempty" yaml:"max_level,omitempty"` // Facade filter; empty keeps the forwarder default.
	Coupling []string     `mapstructure:"coupling" json:"coupling,omitempty" yaml:"coupling,omitempty"`
	Sinks    []SinkConfig `mapstructure:"sinks" json:"sinks,omitempty" yaml:"sinks,omitempty"`
	Output   OutputConfig `mapstructure:"output" json:"output" yaml:"output"`
}

// SinkConfig registers a sink for one origin.
type SinkConfig struct {
	Origin string `mapstructure:"origin" json:"origin" yaml:"origin"`
	Level  string `mapstructure:"level" json:"level" yaml:"level"`
	Sink   string `mapstructure:"sink" json:"sink,omitempty" yaml:"sink,omitempty"` // Named sink; empty or "output" selects the configured writer.
}

// SinkOutput names the writer passed to Apply.
const SinkOutput = "output"

// OutputConfig selects how records and events are written.
type OutputConfig struct {
	Format string `mapstructure:"format" json:"format,omitempty" yaml:"format,omitempty"`
	Path   string `mapstructure:"path" json:"path,omitempty" yaml:"path,omitempty"` // Empty writes to stdout.
}

// DefaultConfig returns the default configuration: the forwarder's coupling
// origins and text output on stdout.
func DefaultConfig() Config {
	return Config{
		Coupling: append([]string{}, forwarder.DefaultCouplingOrigins...),
		Output:   OutputConfig{Format: FormatText},
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxLevel != "" {
		c.MaxLevel = source.MaxLevel
	}
	if len(source.Coupling) > 0 {
		c.Coupling = source.Coupling
	}
	if len(source.Sinks) > 0 {
		c.Sinks = source.Sinks
	}
	if source.Output.Format != "" {
		c.Output.Format = source.Output.Format
	}
	if source.Output.Path != "" {
		c.Output.Path = source.Output.Path
	}
}

// Validate checks levels, origins and the output format.
func (c *Config) Validate() error {
	if c.MaxLevel != "" {
		if _, err := observability.ParseLevel(c.MaxLevel); err != nil {
			return fmt.Errorf("max_level: %w", err)
		}
	}
	for i, s := range c.Sinks {
		if s.Origin == "" {
			return fmt.Errorf("sinks[%d]: %w", i, ErrEmptyOrigin)
		}
		if _, err := observability.ParseLevel(s.Level); err != nil {
			return fmt.Errorf("sinks[%d] %s: %w", i, s.Origin, err)
		}
		if s.Sink != "" && s.Sink != SinkOutput {
			if _, err := observability.SinkByName(s.Sink); err != nil {
				known := append([]string{SinkOutput}, observability.SinkNames()...)
				return fmt.Errorf("sinks[%d] %s: %w (known: %s)", i, s.Origin, err, strings.Join(known, ", "))
			}
		}
	}
	for i, origin := range c.Coupling {
		if origin == "" {
			return fmt.Errorf("coupling[%d]: %w", i, ErrEmptyOrigin)
		}
	}
	switch c.Output.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}
	return nil
}

// LoadConfig reads a YAML, JSON or TOML file (by extension), overlays
// LOGFORWARD_* environment variables, merges the result with defaults and
// validates it. An empty filename loads defaults plus environment.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Env overrides only reach Unmarshal for keys viper knows about.
	v.SetDefault("max_level", "")
	v.SetDefault("output.format", "")
	v.SetDefault("output.path", "")

	if filename != "" {
		v.SetConfigFile(filename)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Encode renders c as YAML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ForwarderOptions returns the forwarder options implied by c.
func (c *Config) ForwarderOptions() []forwarder.Option {
	return []forwarder.Option{forwarder.WithOrigins(c.Coupling...)}
}

// Apply configures fwd and reg from c. logger receives facade records and
// sink receives events for every configured origin that does not name
// another sink. Coupling origins are fixed when fwd is built; see
// ForwarderOptions.
func (c *Config) Apply(reg *observability.Registry, fwd *forwarder.Forwarder, logger forwarder.Logger, sink observability.Sink) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.MaxLevel != "" {
		level, _ := observability.ParseLevel(c.MaxLevel)
		fwd.SetMaxLevel(level)
	}
	fwd.SetLogger(logger)
	for _, s := range c.Sinks {
		level, _ := observability.ParseLevel(s.Level)
		target := sink
		if s.Sink != "" && s.Sink != SinkOutput {
			target, _ = observability.SinkByName(s.Sink)
		}
		reg.Register(s.Origin, level, target)
	}
	return nil
}
