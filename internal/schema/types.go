// Package schema holds the method catalogue: method descriptors, their
// parameter schemas and the tri-state values that flow through them.
package schema

import (
	"strings"
)

// ServiceKind selects how a service's methods are turned into commands.
type ServiceKind string

const (
	ServicePlain  ServiceKind = "plain"
	ServiceCRUD   ServiceKind = "crud"
	ServiceConfig ServiceKind = "config"
)

// Service describes where a group of methods is placed in the command tree.
type Service struct {
	Name        string
	Kind        ServiceKind
	Namespace   string // Dotted placement path, e.g. "account.user"
	Description string
}

// Method is a single remote method descriptor.
type Method struct {
	Name        string // Fully-qualified, e.g. "user.create"
	Description string
	Filterable  bool
	Job         bool
	Accepts     []SchemaNode

	// FilterFields lists the queryable field names of a filterable method,
	// in declared order.
	FilterFields []string
}

// ServiceName returns the part of the method name before the last dot.
func (m *Method) ServiceName() string {
	if i := strings.LastIndex(m.Name, "."); i >= 0 {
		return m.Name[:i]
	}
	return ""
}

// ShortName returns the part of the method name after the last dot.
func (m *Method) ShortName() string {
	if i := strings.LastIndex(m.Name, "."); i >= 0 {
		return m.Name[i+1:]
	}
	return m.Name
}

// ScalarKind is the primitive type of a scalar schema node.
type ScalarKind string

const (
	KindString  ScalarKind = "string"
	KindInteger ScalarKind = "integer"
	KindNumber  ScalarKind = "number"
	KindBoolean ScalarKind = "boolean"
	KindAny     ScalarKind = ""
)

// SchemaNode is one of *ScalarNode, *ObjectNode or *ArrayNode.
type SchemaNode interface {
	schemaNode()
	Info() *Meta
}

// Meta holds the fields shared by every schema node.
type Meta struct {
	Name        string
	Title       string
	Description string
	Types       []string // Declared type names, e.g. ["integer", "null"]
	Required    bool
	Default     any
	HasDefault  bool
}

// Info returns the shared node fields.
func (m *Meta) Info() *Meta { return m }

// Nullable reports whether null is one of the declared types.
func (m *Meta) Nullable() bool {
	for _, t := range m.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// HasType reports whether name is one of the declared types.
func (m *Meta) HasType(name string) bool {
	for _, t := range m.Types {
		if t == name {
			return true
		}
	}
	return false
}

// TypeTitle is the human label used in editor comments: "Integer | Null",
// "Object", or "Parameter" when no type is declared.
func (m *Meta) TypeTitle() string {
	if len(m.Types) == 0 {
		return "Parameter"
	}
	titles := make([]string, len(m.Types))
	for i, t := range m.Types {
		titles[i] = titleCase(t)
	}
	return strings.Join(titles, " | ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// ScalarNode is a leaf parameter.
type ScalarNode struct {
	Meta
	Kind       ScalarKind
	Enum       []any
	EnumSource string // Method that lists the allowed values at runtime
}

// ObjectNode is a parameter with ordered named children.
type ObjectNode struct {
	Meta
	Properties           []SchemaNode
	AdditionalProperties bool
}

// Property returns the child with the given name.
func (o *ObjectNode) Property(name string) (SchemaNode, bool) {
	for _, p := range o.Properties {
		if p.Info().Name == name {
			return p, true
		}
	}
	return nil, false
}

// ArrayNode is a list parameter. Items holds example item shapes; the first
// one is the schema of every element.
type ArrayNode struct {
	Meta
	Items []SchemaNode
}

// Item returns the element schema, if any.
func (a *ArrayNode) Item() (SchemaNode, bool) {
	if len(a.Items) == 0 {
		return nil, false
	}
	return a.Items[0], true
}

func (*ScalarNode) schemaNode() {}
func (*ObjectNode) schemaNode() {}
func (*ArrayNode) schemaNode()  {}

// Catalogue is the set of methods and services known to the shell.
type Catalogue struct {
	Services map[string]*Service
	Methods  []*Method // In catalogue order
	byName   map[string]*Method
}

// NewCatalogue indexes methods by name.
func NewCatalogue(services map[string]*Service, methods []*Method) *Catalogue {
	c := &Catalogue{
		Services: services,
		Methods:  methods,
		byName:   make(map[string]*Method, len(methods)),
	}
	if c.Services == nil {
		c.Services = make(map[string]*Service)
	}
	for _, m := range methods {
		c.byName[m.Name] = m
	}
	return c
}

// Method returns the method with the given fully-qualified name.
func (c *Catalogue) Method(name string) (*Method, bool) {
	m, ok := c.byName[name]
	return m, ok
}

// Service returns the service a method belongs to.
func (c *Catalogue) Service(m *Method) (*Service, bool) {
	s, ok := c.Services[m.ServiceName()]
	return s, ok
}
