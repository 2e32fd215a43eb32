package query

import (
	"fmt"

	"github.com/aidanlsb/rpcsh/internal/schema"
)

// Filter is a canonical filter expression: a *Condition, a *Combinator or
// a *Negation.
type Filter interface {
	filterNode()
	// Canonical returns the list form sent to the remote side, e.g.
	// ["uid", ">", 0] or ["AND", [...]].
	Canonical() []any
}

// Condition compares a field with a constant. Op is one of
// = != > >= < <= in nin rin rnin ~ ^ $.
type Condition struct {
	Field string
	Op    string
	Value any
}

// Combinator joins filters with "AND" or "OR".
type Combinator struct {
	Op      string
	Filters []Filter
}

// Negation inverts a filter.
type Negation struct {
	Filter Filter
}

func (*Condition) filterNode()  {}
func (*Combinator) filterNode() {}
func (*Negation) filterNode()   {}

func (c *Condition) Canonical() []any { return []any{c.Field, c.Op, c.Value} }

func (c *Combinator) Canonical() []any {
	children := make([]any, len(c.Filters))
	for i, f := range c.Filters {
		children[i] = f.Canonical()
	}
	return []any{c.Op, children}
}

func (n *Negation) Canonical() []any { return []any{"NOT", n.Filter.Canonical()} }

// UnsupportedError rejects a well-formed expression that has no filter
// equivalent.
type UnsupportedError struct {
	Msg string
}

func (e *UnsupportedError) Error() string { return e.Msg }

func unsupported(format string, args ...any) error {
	return &UnsupportedError{Msg: fmt.Sprintf(format, args...)}
}

var filterOps = map[string]string{
	"Eq":    "=",
	"NotEq": "!=",
	"Gt":    ">",
	"GtE":   ">=",
	"Lt":    "<",
	"LtE":   "<=",
	"In":    "in",
	"NotIn": "nin",
}

var functionOps = map[string]string{
	"match":      "~",
	"startswith": "^",
	"endswith":   "$",
}

// ParseFilter parses a WHERE expression into a Filter.
func ParseFilter(text string) (Filter, error) {
	e, err := ParseExpr(text)
	if err != nil {
		return nil, err
	}
	return toFilter(e)
}

func toFilter(e Expr) (Filter, error) {
	switch e := e.(type) {
	case BoolOpExpr:
		op := "AND"
		if e.Op == "or" {
			op = "OR"
		}
		c := &Combinator{Op: op}
		for _, v := range e.Values {
			f, err := toFilter(v)
			if err != nil {
				return nil, err
			}
			c.Filters = append(c.Filters, f)
		}
		return c, nil

	case CompareExpr:
		return compareFilter(e)

	case CallExpr:
		return callFilter(e)

	case UnaryOpExpr:
		if e.Op != "Not" {
			return nil, unsupported("unknown unary expression %s", e.Op)
		}
		f, err := toFilter(e.Operand)
		if err != nil {
			return nil, err
		}
		return &Negation{Filter: f}, nil
	}
	return nil, unsupported("unsupported filter expression: %s", e.Kind())
}

func compareFilter(e CompareExpr) (Filter, error) {
	if len(e.Comparators) != 1 {
		return nil, unsupported("too many comparators (expected 1, found %d)", len(e.Comparators))
	}
	right := e.Comparators[0]

	op, ok := filterOps[e.Ops[0]]
	if !ok {
		return nil, unsupported("unsupported comparison operator: %s", e.Ops[0])
	}

	// 'x' in field tests membership in the field's value.
	if left, ok := e.Left.(ConstExpr); ok && (op == "in" || op == "nin") {
		name, ok := right.(NameExpr)
		if !ok {
			return nil, unsupported("unsupported right operand for `%s %s`", constString(left.Value), op)
		}
		return &Condition{Field: name.Name, Op: "r" + op, Value: left.Value}, nil
	}

	left, ok := e.Left.(NameExpr)
	if !ok {
		return nil, unsupported("unsupported left operand %s", e.Left.Kind())
	}
	value, err := constant(right)
	if err != nil {
		return nil, err
	}
	return &Condition{Field: left.Name, Op: op, Value: value}, nil
}

func callFilter(e CallExpr) (Filter, error) {
	attr, ok := e.Func.(AttributeExpr)
	if !ok {
		return nil, unsupported("unsupported callee type: %s", e.Func.Kind())
	}
	field, ok := attr.Value.(NameExpr)
	if !ok {
		return nil, unsupported("unsupported callee %s", attr.Value.Kind())
	}
	op, ok := functionOps[attr.Attr]
	if !ok {
		return nil, unsupported("unknown function name '%s'", attr.Attr)
	}
	if len(e.Args) != 1 {
		return nil, unsupported("function %s accepts 1 argument, given %d", attr.Attr, len(e.Args))
	}
	if len(e.Keywords) > 0 {
		return nil, unsupported("function %s does not accept keyword arguments", attr.Attr)
	}

	value, err := constant(e.Args[0])
	if err != nil {
		return nil, err
	}
	return &Condition{Field: field.Name, Op: op, Value: value}, nil
}

// constant evaluates a right-hand operand. Sequences become lists and the
// bare names true, false and null are literals.
func constant(e Expr) (any, error) {
	switch e := e.(type) {
	case ConstExpr:
		return e.Value, nil
	case SeqExpr:
		out := make([]any, 0, len(e.Elems))
		for _, el := range e.Elems {
			v, err := constant(el)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case NameExpr:
		switch e.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null":
			return nil, nil
		}
	}
	return nil, unsupported("unsupported right operand %s", e.Kind())
}

func constString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return schema.FormatLiteral(v)
}
