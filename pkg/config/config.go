package config

import (
	"context"
	"maps"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/flatconf/flatconf/pkg/loader"
	"github.com/flatconf/flatconf/pkg/value"
)

// Config is a read-only set of parameters addressed by dotted path. It is
// safe for concurrent use.
type Config struct {
	source  string
	loadID  string
	entries map[string]value.Value
}

// New loads source with a default loader that logs through the global
// zerolog logger. Problems while loading are logged, never returned: a
// missing source gives an empty Config.
func New(source string) *Config {
	return Load(context.Background(), loader.NewLoader(log.Logger), source)
}

// Load loads source with l.
func Load(ctx context.Context, l *loader.Loader, source string) *Config {
	return fromResult(l.Load(ctx, source))
}

// FromEntries builds a Config from already flattened entries. The map is
// copied.
func FromEntries(entries map[string]value.Value) *Config {
	c := &Config{entries: make(map[string]value.Value, len(entries))}
	for path, v := range entries {
		c.entries[path] = v.Clone()
	}
	return c
}

func fromResult(res loader.Result) *Config {
	entries := res.Entries
	if entries == nil {
		entries = make(map[string]value.Value)
	}
	return &Config{
		source:  res.Source,
		loadID:  res.LoadID,
		entries: entries,
	}
}

// Source returns the path the configuration was loaded from.
func (c *Config) Source() string { return c.source }

// LoadID returns the id of the load that produced c, if any.
func (c *Config) LoadID() string { return c.loadID }

// Len returns the number of parameters.
func (c *Config) Len() int { return len(c.entries) }

// Keys returns every path in sorted order.
func (c *Config) Keys() []string {
	return slices.Sorted(maps.Keys(c.entries))
}

// Entries returns a copy of all parameters.
func (c *Config) Entries() map[string]value.Value {
	out := make(map[string]value.Value, len(c.entries))
	for path, v := range c.entries {
		out[path] = v.Clone()
	}
	return out
}

// Exists reports whether path is a parameter. Intermediate paths such as
// "user" for "user.name" are not parameters.
func (c *Config) Exists(path string) bool {
	_, ok := c.entries[path]
	return ok
}

// Get returns a copy of the value at path.
func (c *Config) Get(path string) (value.Value, error) {
	v, ok := c.entries[path]
	if !ok {
		return value.Value{}, &NotFoundError{Path: path}
	}
	return v.Clone(), nil
}

// GetString returns the string at path.
func (c *Config) GetString(path string) (string, error) {
	v, err := c.Get(path)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", mismatch(path, value.KindString, v)
	}
	return s, nil
}

// GetBool returns the boolean at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, err := c.Get(path)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, mismatch(path, value.KindBool, v)
	}
	return b, nil
}

// GetInt returns the integer at path. Floats are not narrowed.
func (c *Config) GetInt(path string) (int64, error) {
	v, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, mismatch(path, value.KindInt, v)
	}
	return i, nil
}

// GetNumber is GetInt.
func (c *Config) GetNumber(path string) (int64, error) {
	return c.GetInt(path)
}

// GetFloat returns the number at path as a float. Integers are widened.
func (c *Config) GetFloat(path string) (float64, error) {
	v, err := c.Get(path)
	if err != nil {
		return 0, err
	}
	f, ok := v.AsFloat()
	if !ok {
		return 0, mismatch(path, value.KindFloat, v)
	}
	return f, nil
}

// GetSequence returns a copy of the sequence at path.
func (c *Config) GetSequence(path string) ([]value.Value, error) {
	v, err := c.Get(path)
	if err != nil {
		return nil, err
	}
	items, ok := v.AsSequence()
	if !ok {
		return nil, mismatch(path, value.KindSequence, v)
	}
	return items, nil
}

func mismatch(path string, expected value.Kind, got value.Value) error {
	return &TypeMismatchError{Path: path, Expected: expected, Actual: got.Kind()}
}
