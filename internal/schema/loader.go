package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/iancoleman/orderedmap"
)

// Load reads a catalogue JSON file.
func Load(path string) (*Catalogue, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, err
	}
	return Build(raw)
}

// LoadRaw reads a catalogue JSON file without building it.
func LoadRaw(path string) (*RawCatalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", path, err)
	}
	raw, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalogue %s: %w", path, err)
	}
	return raw, nil
}

// Decode parses catalogue JSON, keeping the declared order of methods and
// object properties.
func Decode(data []byte) (*RawCatalogue, error) {
	root := orderedmap.New()
	if err := json.Unmarshal(data, root); err != nil {
		return nil, err
	}

	raw := &RawCatalogue{Services: make(map[string]RawService)}

	if v, ok := root.Get("services"); ok {
		services, ok := asOrdered(v)
		if !ok {
			return nil, fmt.Errorf("services: expected an object")
		}
		for _, name := range services.Keys() {
			sv, _ := services.Get(name)
			sm, ok := asOrdered(sv)
			if !ok {
				return nil, fmt.Errorf("services.%s: expected an object", name)
			}
			raw.Services[name] = RawService{
				Kind:        getString(sm, "kind"),
				Namespace:   getString(sm, "namespace"),
				Description: getString(sm, "description"),
			}
		}
	}

	if v, ok := root.Get("methods"); ok {
		methods, ok := asOrdered(v)
		if !ok {
			return nil, fmt.Errorf("methods: expected an object")
		}
		for _, name := range methods.Keys() {
			mv, _ := methods.Get(name)
			mm, ok := asOrdered(mv)
			if !ok {
				return nil, fmt.Errorf("methods.%s: expected an object", name)
			}
			rm := RawMethod{
				Name:        name,
				Description: getString(mm, "description"),
				Filterable:  getBool(mm, "filterable"),
				Job:         getBool(mm, "job"),
			}
			if av, ok := mm.Get("accepts"); ok {
				list, ok := av.([]any)
				if !ok {
					return nil, fmt.Errorf("methods.%s.accepts: expected a list", name)
				}
				for i, item := range list {
					im, ok := asOrdered(item)
					if !ok {
						return nil, fmt.Errorf("methods.%s.accepts[%d]: expected an object", name, i)
					}
					rs, err := decodeSchema(im, "")
					if err != nil {
						return nil, fmt.Errorf("methods.%s.accepts[%d]: %w", name, i, err)
					}
					rm.Accepts = append(rm.Accepts, rs)
				}
			}
			if fv, ok := mm.Get("filterable_schema"); ok {
				fm, ok := asOrdered(fv)
				if !ok {
					return nil, fmt.Errorf("methods.%s.filterable_schema: expected an object", name)
				}
				if pv, ok := fm.Get("properties"); ok {
					if props, ok := asOrdered(pv); ok {
						rm.FilterFields = props.Keys()
					}
				}
			}
			raw.Methods = append(raw.Methods, rm)
		}
	}

	return raw, nil
}

func decodeSchema(m *orderedmap.OrderedMap, name string) (RawSchema, error) {
	rs := RawSchema{
		Name:        getString(m, "name"),
		Title:       getString(m, "title"),
		Description: getString(m, "description"),
		Required:    getBool(m, "required"),
		EnumSource:  getString(m, "enum_source"),
	}
	if rs.Name == "" {
		rs.Name = name
	}

	if tv, ok := m.Get("type"); ok {
		switch t := tv.(type) {
		case string:
			rs.Types = []string{t}
		case []any:
			for _, item := range t {
				s, ok := item.(string)
				if !ok {
					return rs, fmt.Errorf("%s: type must be a string or a list of strings", rs.Name)
				}
				rs.Types = append(rs.Types, s)
			}
		case nil:
		default:
			return rs, fmt.Errorf("%s: type must be a string or a list of strings", rs.Name)
		}
	}

	if dv, ok := m.Get("default"); ok {
		rs.Default = jsonValue(dv)
		rs.HasDefault = true
	}

	if ev, ok := m.Get("enum"); ok {
		list, ok := ev.([]any)
		if !ok {
			return rs, fmt.Errorf("%s: enum must be a list", rs.Name)
		}
		for _, e := range list {
			rs.Enum = append(rs.Enum, jsonValue(e))
		}
	}

	if pv, ok := m.Get("properties"); ok {
		props, ok := asOrdered(pv)
		if !ok {
			return rs, fmt.Errorf("%s: properties must be an object", rs.Name)
		}
		for _, key := range props.Keys() {
			cv, _ := props.Get(key)
			cm, ok := asOrdered(cv)
			if !ok {
				return rs, fmt.Errorf("%s.%s: expected an object", rs.Name, key)
			}
			child, err := decodeSchema(cm, key)
			if err != nil {
				return rs, err
			}
			child.Name = key
			rs.Properties = append(rs.Properties, child)
		}
	}

	if iv, ok := m.Get("items"); ok {
		var items []any
		switch x := iv.(type) {
		case []any:
			items = x
		default:
			items = []any{x}
		}
		for _, item := range items {
			im, ok := asOrdered(item)
			if !ok {
				return rs, fmt.Errorf("%s: items must be schema objects", rs.Name)
			}
			child, err := decodeSchema(im, "")
			if err != nil {
				return rs, err
			}
			rs.Items = append(rs.Items, child)
		}
	}

	if av, ok := m.Get("additionalProperties"); ok {
		switch x := av.(type) {
		case bool:
			rs.AdditionalProperties = x
		case nil:
		default:
			rs.AdditionalProperties = true
		}
	}

	return rs, nil
}

// asOrdered unwraps nested objects, which orderedmap stores by value.
func asOrdered(v any) (*orderedmap.OrderedMap, bool) {
	switch m := v.(type) {
	case orderedmap.OrderedMap:
		return &m, true
	case *orderedmap.OrderedMap:
		return m, true
	}
	return nil, false
}

func getString(m *orderedmap.OrderedMap, key string) string {
	v, _ := m.Get(key)
	s, _ := v.(string)
	return s
}

func getBool(m *orderedmap.OrderedMap, key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(bool)
	return b
}

// jsonValue converts decoded JSON into the shell's value model. Integral
// numbers become ints.
func jsonValue(v any) any {
	if om, ok := asOrdered(v); ok {
		out := make(map[string]any, len(om.Keys()))
		for _, k := range om.Keys() {
			child, _ := om.Get(k)
			out[k] = jsonValue(child)
		}
		return out
	}
	switch x := v.(type) {
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int(x)
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = jsonValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = jsonValue(item)
		}
		return out
	}
	return v
}
