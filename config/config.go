// Package config loads replay settings from a YAML file, a .env file and
// NORM_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fwojciec/norm"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Config holds replay settings.
type Config struct {
	Grammar     string `yaml:"grammar"`
	Strict      bool   `yaml:"strict"`
	Repair      bool   `yaml:"repair"`
	LogLevel    string `yaml:"log_level"`
	Format      string `yaml:"format"`
	MaxLineSize int    `yaml:"max_line_size"`
	Width       int    `yaml:"width"`

	// FinishReasons overrides finish reason tables, keyed by grammar name
	// and then by raw vendor reason.
	FinishReasons map[string]map[string]string `yaml:"finish_reasons"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel: "warn",
		Format:   FormatJSON,
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error
// when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ReadDotEnv reads KEY=VALUE pairs from a .env file. A missing file yields
// an empty map.
func ReadDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return env, nil
}

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Chain returns a LookupFunc consulting fns in order.
func Chain(fns ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, fn := range fns {
			if v, ok := fn(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// MapLookup adapts a map to a LookupFunc.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// ApplyEnv overlays NORM_* variables found by lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup("NORM_GRAMMAR"); ok {
		c.Grammar = v
	}
	if v, ok := lookup("NORM_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup("NORM_FORMAT"); ok {
		c.Format = v
	}
	for key, dst := range map[string]*bool{"NORM_STRICT": &c.Strict, "NORM_REPAIR": &c.Repair} {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	for key, dst := range map[string]*int{"NORM_MAX_LINE_SIZE": &c.MaxLineSize, "NORM_WIDTH": &c.Width} {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks formats, sizes and finish reason overrides.
func (c Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatPretty:
	default:
		return fmt.Errorf("unknown format %q: must be %q or %q", c.Format, FormatJSON, FormatPretty)
	}
	if c.MaxLineSize < 0 {
		return fmt.Errorf("max_line_size must not be negative")
	}
	for grammar := range c.FinishReasons {
		if _, err := c.Overrides(grammar); err != nil {
			return err
		}
	}
	return nil
}

// Overrides returns the finish reason overrides for grammar.
func (c Config) Overrides(grammar string) (map[string]norm.FinishReason, error) {
	raw := c.FinishReasons[grammar]
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]norm.FinishReason, len(raw))
	for vendor, canonical := range raw {
		r, ok := norm.ParseFinishReason(strings.TrimSpace(canonical))
		if !ok {
			return nil, fmt.Errorf("finish_reasons.%s.%s: unknown finish reason %q", grammar, vendor, canonical)
		}
		out[vendor] = r
	}
	return out, nil
}
