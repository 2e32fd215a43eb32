// Package commands builds the navigable command tree from a method
// catalogue.
package commands

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

// Node is a *Namespace or a *Command.
type Node interface {
	node()
	NodeName() string
	Summary() string
}

// Namespace groups commands and nested namespaces.
type Namespace struct {
	Name        string
	Description string
	Parent      *Namespace

	children []Node
}

// Variant selects how a command turns its input into a call.
type Variant int

const (
	Call Variant = iota
	Query
	Create
	Update
	Delete
	ConfigUpdate
)

func (v Variant) String() string {
	switch v {
	case Query:
		return "query"
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case ConfigUpdate:
		return "config-update"
	default:
		return "call"
	}
}

// NoSplice marks commands whose keywords bind to arguments by name.
const NoSplice = -1

// Command invokes one remote method.
type Command struct {
	Name    string
	Method  *schema.Method
	Variant Variant
	Splice  int  // Argument collecting keyword arguments, or NoSplice
	Quiet   bool // Successful results are not printed
	Parent  *Namespace

	// EditorMethod is the schema shown in the structured editor. For update
	// commands it is a copy of Method whose payload fields are optional.
	EditorMethod *schema.Method
}

func (*Namespace) node() {}
func (*Command) node()   {}

func (n *Namespace) NodeName() string { return n.Name }
func (c *Command) NodeName() string   { return c.Name }

func (n *Namespace) Summary() string { return n.Description }
func (c *Command) Summary() string   { return c.Method.Description }

// IsRoot reports whether n has no parent.
func (n *Namespace) IsRoot() bool { return n.Parent == nil }

// Children returns the child nodes in insertion order.
func (n *Namespace) Children() []Node {
	return n.children
}

// Names returns the child names, sorted.
func (n *Namespace) Names() []string {
	names := make([]string, len(n.children))
	for i, c := range n.children {
		names[i] = c.NodeName()
	}
	sort.Strings(names)
	return names
}

// Lookup returns the direct child with the given name.
func (n *Namespace) Lookup(name string) (Node, bool) {
	for _, c := range n.children {
		if c.NodeName() == name {
			return c, true
		}
	}
	return nil, false
}

// Find walks path from n. Every element but the last must name a namespace.
func (n *Namespace) Find(path []string) (Node, bool) {
	var cur Node = n
	for _, name := range path {
		ns, ok := cur.(*Namespace)
		if !ok {
			return nil, false
		}
		if cur, ok = ns.Lookup(name); !ok {
			return nil, false
		}
	}
	return cur, true
}

// Path returns the names from the root to n, excluding the root.
func (n *Namespace) Path() []string {
	var path []string
	for cur := n; cur != nil && !cur.IsRoot(); cur = cur.Parent {
		path = append([]string{cur.Name}, path...)
	}
	return path
}

// FullName is the command's path joined with spaces, e.g. "account user create".
func (c *Command) FullName() string {
	return strings.Join(append(c.Parent.Path(), c.Name), " ")
}

// Complete returns the names of children starting with prefix, sorted.
func (n *Namespace) Complete(prefix string) []string {
	var out []string
	for _, name := range n.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Suggest returns up to limit child names that fuzzily match name, best
// first.
func (n *Namespace) Suggest(name string, limit int) []string {
	if name == "" {
		return nil
	}
	matches := fuzzy.Find(name, n.Names())
	var out []string
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// CommandFor returns the command bound to the named method, searching the
// whole subtree.
func (n *Namespace) CommandFor(method string) (*Command, bool) {
	for _, child := range n.children {
		switch c := child.(type) {
		case *Command:
			if c.Method.Name == method {
				return c, true
			}
		case *Namespace:
			if found, ok := c.CommandFor(method); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func (n *Namespace) add(child Node) {
	n.children = append(n.children, child)
}
