package schema

import (
	"strconv"
	"strings"
)

type valueState int

const (
	stateUnset valueState = iota
	stateNull
	stateSet
)

// Value is the current value of a schema node. The zero Value is unset,
// which is distinct from an explicit null.
type Value struct {
	state valueState
	data  any
}

// Unset returns a value meaning "nothing supplied".
func Unset() Value { return Value{} }

// Null returns an explicit null value.
func Null() Value { return Value{state: stateNull} }

// Of wraps a concrete value. A nil argument yields Null.
func Of(v any) Value {
	if v == nil {
		return Null()
	}
	return Value{state: stateSet, data: v}
}

// IsUnset reports whether no value was supplied.
func (v Value) IsUnset() bool { return v.state == stateUnset }

// IsNull reports whether the value is an explicit null.
func (v Value) IsNull() bool { return v.state == stateNull }

// IsSet reports whether the value is concrete or null.
func (v Value) IsSet() bool { return v.state != stateUnset }

// Get returns the underlying data. Null yields (nil, true); unset yields
// (nil, false).
func (v Value) Get() (any, bool) {
	switch v.state {
	case stateSet:
		return v.data, true
	case stateNull:
		return nil, true
	}
	return nil, false
}

// Map returns the value as an object, if it is one.
func (v Value) Map() (map[string]any, bool) {
	m, ok := v.data.(map[string]any)
	return m, ok && v.state == stateSet
}

// List returns the value as a list, if it is one.
func (v Value) List() ([]any, bool) {
	l, ok := v.data.([]any)
	return l, ok && v.state == stateSet
}

// Field returns the named child of an object value, or Unset when the value
// is not an object or has no such key.
func (v Value) Field(name string) Value {
	m, ok := v.Map()
	if !ok {
		return Unset()
	}
	child, ok := m[name]
	if !ok {
		return Unset()
	}
	return Of(child)
}

func (v Value) String() string {
	switch v.state {
	case stateUnset:
		return "<unset>"
	case stateNull:
		return "null"
	}
	return FormatLiteral(v.data)
}

// Path locates a node inside a method's argument list: the top-level
// argument name followed by property names and list indexes.
type Path []string

// Child returns a new path with name appended.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Index returns a new path with a list index appended.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// String returns the dot-joined path used to attribute validation errors.
func (p Path) String() string {
	return strings.Join(p, ".")
}
