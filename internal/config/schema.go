package config

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Kind is the runtime type class of a decoded configuration value.
type Kind int

const (
	KindUnknown Kind = iota
	KindNull
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// KindOf classifies a value produced by the YAML or TOML decoders.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case []any:
		return KindList
	case map[string]any:
		return KindDict
	default:
		return KindUnknown
	}
}

// ValidationError names one offending path in a configuration tree.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return displayPath(e.Path) + ": " + e.Message
}

func displayPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}

// Validator checks a value found at path. Errors are produced lazily; a
// consumer that stops early stops the walk.
type Validator interface {
	Validate(path string, value any) iter.Seq[ValidationError]
}

// Fields maps dict keys to the validators of their values.
type Fields map[string]Validator

// DictValidator accepts a mapping whose keys are all declared fields.
type DictValidator struct {
	Fields Fields
}

// Dict builds a validator for a mapping with the given fields.
func Dict(fields Fields) DictValidator {
	return DictValidator{Fields: fields}
}

func (d DictValidator) Validate(path string, value any) iter.Seq[ValidationError] {
	return func(yield func(ValidationError) bool) {
		m, ok := value.(map[string]any)
		if !ok {
			yield(ValidationError{Path: path, Message: "Expected a dict, got " + KindOf(value).String()})
			return
		}
		// sorted for a stable error order
		for _, key := range slices.Sorted(maps.Keys(m)) {
			sub := path + "." + key
			field, known := d.Fields[key]
			if !known {
				if !yield(ValidationError{Path: sub, Message: "Field does not exist"}) {
					return
				}
				continue
			}
			for err := range field.Validate(sub, m[key]) {
				if !yield(err) {
					return
				}
			}
		}
	}
}

// TypeValidator accepts values of any of the listed kinds.
type TypeValidator struct {
	Kinds []Kind
}

// Type builds a validator accepting the given kinds.
func Type(kinds ...Kind) TypeValidator {
	return TypeValidator{Kinds: kinds}
}

func (t TypeValidator) Validate(path string, value any) iter.Seq[ValidationError] {
	return func(yield func(ValidationError) bool) {
		got := KindOf(value)
		if slices.Contains(t.Kinds, got) {
			return
		}
		yield(ValidationError{
			Path:    path,
			Message: fmt.Sprintf("Expected type %s, got %s", kindList(t.Kinds), got),
		})
	}
}

// EnumValidator accepts one of a fixed set of values.
type EnumValidator struct {
	Values []any
}

// Enum builds a validator accepting exactly the given values.
func Enum(values ...any) EnumValidator {
	return EnumValidator{Values: values}
}

func (e EnumValidator) Validate(path string, value any) iter.Seq[ValidationError] {
	return func(yield func(ValidationError) bool) {
		for _, allowed := range e.Values {
			if KindOf(allowed) == KindOf(value) && allowed == value {
				return
			}
		}
		quoted := make([]string, len(e.Values))
		for i, v := range e.Values {
			quoted[i] = fmt.Sprintf("%#v", v)
		}
		yield(ValidationError{
			Path:    path,
			Message: fmt.Sprintf("Expected one of %s, got %#v", strings.Join(quoted, ", "), value),
		})
	}
}

// ListValidator accepts a sequence whose elements are all of the listed kinds.
type ListValidator struct {
	Kinds []Kind
}

// List builds a validator for a sequence of elements of the given kinds.
func List(kinds ...Kind) ListValidator {
	return ListValidator{Kinds: kinds}
}

func (l ListValidator) Validate(path string, value any) iter.Seq[ValidationError] {
	return func(yield func(ValidationError) bool) {
		items, ok := value.([]any)
		if !ok {
			yield(ValidationError{Path: path, Message: "Expected a list, got " + KindOf(value).String()})
			return
		}
		for i, item := range items {
			got := KindOf(item)
			if slices.Contains(l.Kinds, got) {
				continue
			}
			err := ValidationError{
				Path:    fmt.Sprintf("%s[%d]", path, i),
				Message: fmt.Sprintf("Expected type %s, got %s", kindList(l.Kinds), got),
			}
			if !yield(err) {
				return
			}
		}
	}
}

func kindList(kinds []Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, " or ")
}

// SchemaError aggregates every violation found in a configuration tree.
type SchemaError struct {
	Errors []ValidationError
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration (%d error", len(e.Errors))
	if len(e.Errors) != 1 {
		b.WriteString("s")
	}
	b.WriteString(")")
	for _, err := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Check runs schema over tree and collects all violations. It returns nil
// when the tree is valid.
func Check(schema Validator, tree any) error {
	var errs []ValidationError
	for err := range schema.Validate("", tree) {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return &SchemaError{Errors: errs}
}
