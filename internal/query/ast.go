// Package query parses the column selection and WHERE clause of query
// commands into filter expressions.
package query

// Expr is a node of a parsed WHERE expression. Kind names the node the way
// error messages refer to it.
type Expr interface {
	exprNode()
	Kind() string
}

// NameExpr is a bare identifier.
type NameExpr struct {
	Name string
}

// ConstExpr is a literal number, string, boolean or None.
type ConstExpr struct {
	Value any
}

// SeqExpr is a list, tuple or set display.
type SeqExpr struct {
	Type  string // "List", "Tuple" or "Set"
	Elems []Expr
}

// DictExpr is a dict display.
type DictExpr struct {
	Keys   []Expr
	Values []Expr
}

// BoolOpExpr is a chain of the same boolean operator.
type BoolOpExpr struct {
	Op     string // "and" or "or"
	Values []Expr
}

// CompareExpr is a possibly chained comparison. Ops holds operator names
// like "Eq", "NotIn" or "IsNot".
type CompareExpr struct {
	Left        Expr
	Ops         []string
	Comparators []Expr
}

// CallExpr is a function or method call.
type CallExpr struct {
	Func     Expr
	Args     []Expr
	Keywords []string
}

// AttributeExpr is a dotted attribute access.
type AttributeExpr struct {
	Value Expr
	Attr  string
}

// UnaryOpExpr applies "Not", "Invert", "USub" or "UAdd".
type UnaryOpExpr struct {
	Op      string
	Operand Expr
}

// BinOpExpr is an arithmetic or bitwise operation.
type BinOpExpr struct {
	Op          string
	Left, Right Expr
}

// SubscriptExpr is an index or key access.
type SubscriptExpr struct {
	Value, Index Expr
}

func (NameExpr) exprNode()      {}
func (ConstExpr) exprNode()     {}
func (SeqExpr) exprNode()       {}
func (DictExpr) exprNode()      {}
func (BoolOpExpr) exprNode()    {}
func (CompareExpr) exprNode()   {}
func (CallExpr) exprNode()      {}
func (AttributeExpr) exprNode() {}
func (UnaryOpExpr) exprNode()   {}
func (BinOpExpr) exprNode()     {}
func (SubscriptExpr) exprNode() {}

func (NameExpr) Kind() string      { return "Name" }
func (ConstExpr) Kind() string     { return "Constant" }
func (e SeqExpr) Kind() string     { return e.Type }
func (DictExpr) Kind() string      { return "Dict" }
func (BoolOpExpr) Kind() string    { return "BoolOp" }
func (CompareExpr) Kind() string   { return "Compare" }
func (CallExpr) Kind() string      { return "Call" }
func (AttributeExpr) Kind() string { return "Attribute" }
func (UnaryOpExpr) Kind() string   { return "UnaryOp" }
func (BinOpExpr) Kind() string     { return "BinOp" }
func (SubscriptExpr) Kind() string { return "Subscript" }
