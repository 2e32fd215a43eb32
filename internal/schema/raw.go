package schema

import (
	"fmt"
)

// RawCatalogue is the serializable form of a catalogue. It is what the JSON
// loader produces and what the snapshot cache stores.
type RawCatalogue struct {
	Services map[string]RawService `msgpack:"services"`
	Methods  []RawMethod           `msgpack:"methods"`
}

// RawService is the serializable form of a Service.
type RawService struct {
	Kind        string `msgpack:"kind"`
	Namespace   string `msgpack:"namespace"`
	Description string `msgpack:"description"`
}

// RawMethod is the serializable form of a Method.
type RawMethod struct {
	Name        string      `msgpack:"name"`
	Description string      `msgpack:"description"`
	Filterable  bool        `msgpack:"filterable"`
	Job         bool        `msgpack:"job"`
	Accepts     []RawSchema `msgpack:"accepts"`

	FilterFields []string `msgpack:"filter_fields"`
}

// RawSchema is the serializable form of a SchemaNode.
type RawSchema struct {
	Name                 string      `msgpack:"name"`
	Title                string      `msgpack:"title"`
	Description          string      `msgpack:"description"`
	Types                []string    `msgpack:"types"`
	Required             bool        `msgpack:"required"`
	Default              any         `msgpack:"default"`
	HasDefault           bool        `msgpack:"has_default"`
	Enum                 []any       `msgpack:"enum"`
	EnumSource           string      `msgpack:"enum_source"`
	Properties           []RawSchema `msgpack:"properties"`
	Items                []RawSchema `msgpack:"items"`
	AdditionalProperties bool        `msgpack:"additional_properties"`
}

// Build turns the raw form into an immutable Catalogue.
func Build(raw *RawCatalogue) (*Catalogue, error) {
	services := make(map[string]*Service, len(raw.Services))
	for name, rs := range raw.Services {
		kind := ServiceKind(rs.Kind)
		switch kind {
		case ServicePlain, ServiceCRUD, ServiceConfig:
		case "":
			kind = ServicePlain
		default:
			return nil, fmt.Errorf("service %s: unknown kind %q", name, rs.Kind)
		}
		services[name] = &Service{
			Name:        name,
			Kind:        kind,
			Namespace:   rs.Namespace,
			Description: rs.Description,
		}
	}

	methods := make([]*Method, 0, len(raw.Methods))
	for _, rm := range raw.Methods {
		m := &Method{
			Name:        rm.Name,
			Description: rm.Description,
			Filterable:  rm.Filterable,
			Job:         rm.Job,

			FilterFields: rm.FilterFields,
		}
		for i, ra := range rm.Accepts {
			if ra.Name == "" {
				return nil, fmt.Errorf("method %s: argument %d has no name", rm.Name, i+1)
			}
			m.Accepts = append(m.Accepts, buildNode(ra))
		}
		methods = append(methods, m)
	}

	return NewCatalogue(services, methods), nil
}

func buildNode(rs RawSchema) SchemaNode {
	meta := Meta{
		Name:        rs.Name,
		Title:       rs.Title,
		Description: rs.Description,
		Types:       rs.Types,
		Required:    rs.Required,
		HasDefault:  rs.HasDefault,
	}
	if rs.HasDefault {
		meta.Default = Normalize(rs.Default)
	}

	switch {
	case meta.HasType("object"):
		obj := &ObjectNode{Meta: meta, AdditionalProperties: rs.AdditionalProperties}
		for _, p := range rs.Properties {
			obj.Properties = append(obj.Properties, buildNode(p))
		}
		return obj
	case meta.HasType("array"):
		arr := &ArrayNode{Meta: meta}
		for _, item := range rs.Items {
			arr.Items = append(arr.Items, buildNode(item))
		}
		return arr
	}

	scalar := &ScalarNode{Meta: meta, EnumSource: rs.EnumSource}
	for _, t := range rs.Types {
		if t != "null" {
			scalar.Kind = ScalarKind(t)
			break
		}
	}
	for _, e := range rs.Enum {
		scalar.Enum = append(scalar.Enum, Normalize(e))
	}
	return scalar
}
