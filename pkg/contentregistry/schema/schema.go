// Package schema implements a small data-driven validator for wire values.
//
// A Schema is a runtime descriptor (field name -> constraint set) interpreted
// by a generic validator, rather than per-field hand-written checks. Values
// are JSON-style: strings, numbers, booleans, []any slices and map[string]any
// objects. Validation is synchronous, pure, and never mutates the input.
package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
)

// FieldError is a validation failure with a deterministic, field-path
// prefixed message. A bare top-level scalar failure has no path prefix.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("[%s]: %s", e.Path, e.Reason)
}

// Schema validates an arbitrary value against a declared shape. The zero
// value is an undefined schema; see IsZero.
type Schema struct {
	c constraint
}

// IsZero reports whether the schema was never defined. Procedures use this
// to fail fast at construction time on incomplete wiring.
func (s Schema) IsZero() bool {
	return s.c == nil
}

// Validate checks value against the schema. It returns a *FieldError on
// failure and nil otherwise.
func (s Schema) Validate(value any) error {
	if fe := s.c.validate("", value); fe != nil {
		return fe
	}
	return nil
}

type constraint interface {
	validate(path string, value any) *FieldError
	// kind names the expected type in missing-field messages.
	kind() string
}

// Field declares one key of an object schema.
type Field struct {
	schema   Schema
	required bool
}

// Required marks a field that must be present.
func Required(s Schema) Field {
	return Field{schema: s, required: true}
}

// Optional marks a field that may be absent.
func Optional(s Schema) Field {
	return Field{schema: s}
}

// StringOption represents a functional option for string constraints
type StringOption func(*stringConstraint)

// MinLen requires a minimum string length.
func MinLen(n int) StringOption {
	return func(c *stringConstraint) {
		c.minLen = &n
	}
}

// Pattern requires the string to match re.
func Pattern(re *regexp.Regexp) StringOption {
	return func(c *stringConstraint) {
		c.pattern = re
	}
}

// String declares a string constraint.
func String(options ...StringOption) Schema {
	c := &stringConstraint{}
	for _, option := range options {
		option(c)
	}
	return Schema{c: c}
}

// Object declares a closed object shape: keys not listed in fields are
// rejected.
func Object(fields map[string]Field) Schema {
	return Schema{c: &objectConstraint{fields: fields}}
}

// PlainObject declares a key-value mapping with no constraint on its
// entries. Arrays, primitives, and other non-map values are rejected.
func PlainObject() Schema {
	return Schema{c: &plainObjectConstraint{}}
}

type stringConstraint struct {
	minLen  *int
	pattern *regexp.Regexp
}

func (c *stringConstraint) kind() string { return "string" }

func (c *stringConstraint) validate(path string, value any) *FieldError {
	s, ok := value.(string)
	if !ok {
		return &FieldError{
			Path:   path,
			Reason: fmt.Sprintf("expected value of type [string] but got [%s]", typeName(value)),
		}
	}
	if c.minLen != nil && len(s) < *c.minLen {
		return &FieldError{
			Path:   path,
			Reason: fmt.Sprintf("value has length [%d] but it must have a minimum length of [%d]", len(s), *c.minLen),
		}
	}
	if c.pattern != nil && !c.pattern.MatchString(s) {
		return &FieldError{
			Path:   path,
			Reason: fmt.Sprintf("value does not match pattern [%s]", c.pattern.String()),
		}
	}
	return nil
}

type objectConstraint struct {
	fields map[string]Field
}

func (c *objectConstraint) kind() string { return "object" }

func (c *objectConstraint) validate(path string, value any) *FieldError {
	obj, fe := asPlainObject(path, value)
	if fe != nil {
		return fe
	}

	// Sorted key order keeps the first reported failure deterministic.
	for _, key := range sortedKeys(obj) {
		if _, declared := c.fields[key]; !declared {
			return &FieldError{
				Path:   joinPath(path, key),
				Reason: "definition for this key is missing",
			}
		}
	}

	for _, key := range sortedKeys(c.fields) {
		field := c.fields[key]
		v, present := obj[key]
		if !present {
			if field.required {
				return &FieldError{
					Path:   joinPath(path, key),
					Reason: fmt.Sprintf("expected value of type [%s] but got [undefined]", field.schema.c.kind()),
				}
			}
			continue
		}
		if fe := field.schema.c.validate(joinPath(path, key), v); fe != nil {
			return fe
		}
	}

	return nil
}

type plainObjectConstraint struct{}

func (c *plainObjectConstraint) kind() string { return "object" }

func (c *plainObjectConstraint) validate(path string, value any) *FieldError {
	_, fe := asPlainObject(path, value)
	return fe
}

// asPlainObject accepts any map with string keys. Arrays, primitives, nil,
// and struct values all fail.
func asPlainObject(path string, value any) (map[string]any, *FieldError) {
	if obj, ok := value.(map[string]any); ok {
		return obj, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		obj := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = iter.Value().Interface()
		}
		return obj, nil
	}

	return nil, &FieldError{
		Path:   path,
		Reason: fmt.Sprintf("expected a plain object value but got [%s]", typeName(value)),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// typeName names a wire value's type the way validation messages report it.
func typeName(value any) string {
	if value == nil {
		return "null"
	}
	switch value.(type) {
	case bool:
		return "boolean"
	case string:
		return "string"
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return "number"
	}
	switch reflect.TypeOf(value).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map:
		return "object"
	default:
		return reflect.TypeOf(value).Kind().String()
	}
}
