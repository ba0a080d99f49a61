package config

import (
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cast"
)

// Config is the validated configuration tree together with the built-in
// defaults. It is immutable once built.
type Config struct {
	loaded   map[string]any
	defaults map[string]any
	path     string
}

// New validates tree against Schema and returns a Config backed by it.
// Every violation is reported in the returned *SchemaError.
func New(tree map[string]any) (*Config, error) {
	if tree == nil {
		tree = map[string]any{}
	}
	if err := Check(Schema, tree); err != nil {
		return nil, err
	}
	return &Config{loaded: tree, defaults: Defaults()}, nil
}

// Path returns the file the configuration was read from, if any.
func (c *Config) Path() string {
	return c.path
}

// Get walks the loaded tree along path. When any segment is missing, the
// lookup restarts in the default tree from the root of path; the two trees
// are never merged field by field.
func (c *Config) Get(path ...string) (any, bool) {
	if v, ok := lookup(c.loaded, path); ok {
		return v, true
	}
	return lookup(c.defaults, path)
}

func lookup(tree map[string]any, path []string) (any, bool) {
	var cur any = tree
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Section returns an accessor bound to a sub-path such as "screenshot".
func (c *Config) Section(prefix ...string) Section {
	return Section{cfg: c, prefix: slices.Clone(prefix)}
}

// Effective returns the tree a reader of this Config observes: the shape of
// the defaults with every leaf resolved through Get, plus loaded keys the
// defaults do not have.
func (c *Config) Effective() map[string]any {
	return c.effective(nil, c.defaults, c.loaded)
}

func (c *Config) effective(path []string, defaults, loaded map[string]any) map[string]any {
	out := make(map[string]any, len(defaults))
	for _, key := range slices.Sorted(maps.Keys(defaults)) {
		sub := append(slices.Clone(path), key)
		if dm, ok := defaults[key].(map[string]any); ok && len(dm) > 0 {
			lm, _ := loaded[key].(map[string]any)
			out[key] = c.effective(sub, dm, lm)
			continue
		}
		out[key], _ = c.Get(sub...)
	}
	for key, v := range loaded {
		if _, ok := out[key]; !ok {
			out[key] = v
		}
	}
	return out
}

// Section is a read accessor narrowed to a configuration sub-path.
type Section struct {
	cfg    *Config
	prefix []string
}

// Name returns the dotted path of the section, e.g. ".screenshot".
func (s Section) Name() string {
	if len(s.prefix) == 0 {
		return "."
	}
	return "." + strings.Join(s.prefix, ".")
}

// Get resolves path relative to the section with Config.Get semantics.
func (s Section) Get(path ...string) (any, bool) {
	if s.cfg == nil {
		return nil, false
	}
	full := append(slices.Clone(s.prefix), path...)
	return s.cfg.Get(full...)
}

// String returns the value at path as a string, "" when absent or null.
func (s Section) String(path ...string) string {
	v, _ := s.Get(path...)
	return cast.ToString(v)
}

// Bool returns the value at path as a bool.
func (s Section) Bool(path ...string) bool {
	v, _ := s.Get(path...)
	return cast.ToBool(v)
}

// Int returns the value at path as an int.
func (s Section) Int(path ...string) int {
	v, _ := s.Get(path...)
	return cast.ToInt(v)
}

// OptionalInt returns the value at path and whether it is set to a non-null value.
func (s Section) OptionalInt(path ...string) (int, bool) {
	v, ok := s.Get(path...)
	if !ok || v == nil {
		return 0, false
	}
	return cast.ToInt(v), true
}

// StringSlice returns the value at path as a list of strings.
func (s Section) StringSlice(path ...string) []string {
	v, _ := s.Get(path...)
	if v == nil {
		return nil
	}
	return cast.ToStringSlice(v)
}
