package schema

import (
	"fmt"

	"github.com/brunoga/deep"
)

// CloneMethod returns a deep copy of m that can be adjusted without touching
// the catalogue.
func CloneMethod(m *Method) (*Method, error) {
	out, err := deep.Copy(m)
	if err != nil {
		return nil, fmt.Errorf("failed to copy method %s: %w", m.Name, err)
	}
	return out, nil
}

// WithOptionalPayload returns a copy of m where the properties of the
// argument at index are not required. Update methods use it: every field of
// the payload may be left out.
func WithOptionalPayload(m *Method, index int) (*Method, error) {
	out, err := CloneMethod(m)
	if err != nil {
		return nil, err
	}
	if index < len(out.Accepts) {
		if obj, ok := out.Accepts[index].(*ObjectNode); ok {
			for _, p := range obj.Properties {
				p.Info().Required = false
			}
		}
	}
	return out, nil
}

// WithDefaults returns a copy of m where the properties of the object
// argument at index take their defaults from current. Keys of current that
// are not declared properties are ignored.
func WithDefaults(m *Method, index int, current map[string]any) (*Method, error) {
	out, err := CloneMethod(m)
	if err != nil {
		return nil, err
	}
	if index >= len(out.Accepts) {
		return out, nil
	}
	obj, ok := out.Accepts[index].(*ObjectNode)
	if !ok {
		return out, nil
	}
	for _, p := range obj.Properties {
		meta := p.Info()
		v, ok := current[meta.Name]
		if !ok {
			continue
		}
		meta.Default = propertyValue(meta, v)
		meta.HasDefault = true
	}
	return out, nil
}

// propertyValue maps a stored object onto what the property accepts: an
// integer property referencing another record holds that record's id.
func propertyValue(meta *Meta, v any) any {
	if m, ok := v.(map[string]any); ok && meta.HasType("integer") {
		return Normalize(m["id"])
	}
	return Normalize(v)
}
