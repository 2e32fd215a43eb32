// Package binder turns a parsed invocation into the ordered argument list a
// method expects.
package binder

import (
	"sort"

	"github.com/aidanlsb/rpcsh/internal/parser"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

// NoSplice means keywords are bound to arguments by name.
const NoSplice = -1

// Bind orders the arguments of inv for a method accepting accepts.
//
// With a splice position, every keyword goes into one object at that
// position and exactly that many positionals must precede it. Without one,
// each keyword fills the argument of the same name and no gaps may remain.
// Array arguments given a single value are wrapped into a list.
func Bind(accepts []schema.SchemaNode, inv *parser.Invocation, splice int) ([]any, error) {
	var args []any
	if splice != NoSplice {
		n := len(inv.Positionals)
		if n < splice {
			return nil, &ArityError{Limit: splice, Given: n}
		}
		if n > splice {
			return nil, &ArityError{Limit: splice, Given: n, TooMany: true}
		}
		payload := make(map[string]any, len(inv.Keywords))
		for k, v := range inv.Keywords {
			payload[k] = v
		}
		args = append(append(args, inv.Positionals...), payload)
	} else {
		bound := make(map[int]any, len(inv.Positionals)+len(inv.Keywords))
		for i, v := range inv.Positionals {
			bound[i] = v
		}

		names := make([]string, 0, len(inv.Keywords))
		for k := range inv.Keywords {
			names = append(names, k)
		}
		sort.Strings(names)

		for _, name := range names {
			index := indexOf(accepts, name)
			if index < 0 {
				return nil, &UnknownArgumentError{Name: name}
			}
			if _, ok := bound[index]; ok {
				return nil, &DuplicateBindingError{Name: name, Position: index + 1}
			}
			bound[index] = inv.Keywords[name]
		}

		last := -1
		for i := range bound {
			last = max(last, i)
		}
		for i := 0; i <= last; i++ {
			v, ok := bound[i]
			if !ok {
				return nil, &MissingArgumentError{Name: accepts[i].Info().Name, Position: i + 1}
			}
			args = append(args, v)
		}
	}

	return Coerce(args, accepts), nil
}

func indexOf(accepts []schema.SchemaNode, name string) int {
	for i, node := range accepts {
		if node.Info().Name == name {
			return i
		}
	}
	return -1
}

// Coerce wraps single values given for array arguments into lists,
// descending into object properties. Null stays null.
func Coerce(args []any, accepts []schema.SchemaNode) []any {
	if args == nil {
		return nil
	}
	out := make([]any, len(args))
	for i, arg := range args {
		if i < len(accepts) {
			out[i] = coerce(arg, accepts[i])
		} else {
			out[i] = arg
		}
	}
	return out
}

func coerce(arg any, node schema.SchemaNode) any {
	switch n := node.(type) {
	case *schema.ArrayNode:
		if _, isList := arg.([]any); arg != nil && !isList {
			return []any{arg}
		}
	case *schema.ObjectNode:
		m, ok := arg.(map[string]any)
		if !ok || len(n.Properties) == 0 {
			return arg
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			if prop, ok := n.Property(k); ok {
				out[k] = coerce(v, prop)
			} else {
				out[k] = v
			}
		}
		return out
	}
	return arg
}
