package query

import (
	"strings"

	"github.com/aidanlsb/rpcsh/internal/parser"
)

// exprParser parses WHERE expressions using Python expression precedence.
type exprParser struct {
	input string
	lexer *Lexer
	curr  Token
	peek  Token
}

// ParseExpr parses a WHERE expression. Syntax errors are *parser.Error
// values pointing at the offending token.
func ParseExpr(input string) (Expr, error) {
	p := &exprParser{input: input, lexer: NewLexer(input)}
	p.advance()
	p.advance()

	e, err := p.parseExprList("")
	if err != nil {
		return nil, err
	}
	if p.curr.Type != TokenEOF {
		return nil, p.syntaxError()
	}
	return e, nil
}

func (p *exprParser) advance() {
	p.curr = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *exprParser) syntaxError() error {
	return parser.NewError("invalid syntax", p.input, p.curr.Pos)
}

func (p *exprParser) isOp(op string) bool {
	return p.curr.Type == TokenOp && p.curr.Value == op
}

// isWord matches the word operators case-insensitively.
func (p *exprParser) isWord(word string) bool {
	return p.curr.Type == TokenName && strings.EqualFold(p.curr.Value, word)
}

func isReserved(name string) bool {
	switch strings.ToLower(name) {
	case "and", "or", "not", "in", "is":
		return true
	}
	return false
}

func (p *exprParser) expectOp(op string) error {
	if !p.isOp(op) {
		return p.syntaxError()
	}
	p.advance()
	return nil
}

// parseExprList parses comma-separated expressions up to closer. A single
// expression without a trailing comma is returned as is; anything else
// becomes a Tuple. An empty closer stands for the end of input.
func (p *exprParser) parseExprList(closer string) (Expr, error) {
	atEnd := func() bool {
		if closer == "" {
			return p.curr.Type == TokenEOF
		}
		return p.isOp(closer)
	}

	if atEnd() {
		if closer == "" {
			return nil, p.syntaxError()
		}
		return SeqExpr{Type: "Tuple"}, nil
	}

	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(",") {
		return first, nil
	}

	elems := []Expr{first}
	for p.isOp(",") {
		p.advance()
		if atEnd() {
			break
		}
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return SeqExpr{Type: "Tuple", Elems: elems}, nil
}

// parseOr parses OR expressions (lowest precedence).
func (p *exprParser) parseOr() (Expr, error) {
	return p.parseBoolOp("or", p.parseAnd)
}

func (p *exprParser) parseAnd() (Expr, error) {
	return p.parseBoolOp("and", p.parseNot)
}

func (p *exprParser) parseBoolOp(word string, next func() (Expr, error)) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	if !p.isWord(word) {
		return left, nil
	}

	values := []Expr{left}
	for p.isWord(word) {
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		values = append(values, right)
	}
	return BoolOpExpr{Op: word, Values: values}, nil
}

func (p *exprParser) parseNot() (Expr, error) {
	if p.isWord("not") {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return UnaryOpExpr{Op: "Not", Operand: operand}, nil
	}
	return p.parseComparison()
}

var compareOps = map[string]string{
	"==": "Eq",
	"!=": "NotEq",
	"<":  "Lt",
	"<=": "LtE",
	">":  "Gt",
	">=": "GtE",
}

// compareOp consumes a comparison operator and returns its name.
func (p *exprParser) compareOp() (string, bool) {
	switch {
	case p.curr.Type == TokenOp:
		name, ok := compareOps[p.curr.Value]
		if ok {
			p.advance()
		}
		return name, ok
	case p.isWord("in"):
		p.advance()
		return "In", true
	case p.isWord("not") && p.peek.Type == TokenName && strings.EqualFold(p.peek.Value, "in"):
		p.advance()
		p.advance()
		return "NotIn", true
	case p.isWord("is"):
		p.advance()
		if p.isWord("not") {
			p.advance()
			return "IsNot", true
		}
		return "Is", true
	}
	return "", false
}

func (p *exprParser) parseComparison() (Expr, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}

	cmp := CompareExpr{Left: left}
	for {
		op, ok := p.compareOp()
		if !ok {
			break
		}
		right, err := p.parseBinary(0)
		if err != nil {
			return nil, err
		}
		cmp.Ops = append(cmp.Ops, op)
		cmp.Comparators = append(cmp.Comparators, right)
	}
	if len(cmp.Ops) == 0 {
		return left, nil
	}
	return cmp, nil
}

// Binary operator levels, loosest first.
var binaryLevels = []map[string]string{
	{"|": "BitOr"},
	{"^": "BitXor"},
	{"&": "BitAnd"},
	{"<<": "LShift", ">>": "RShift"},
	{"+": "Add", "-": "Sub"},
	{"*": "Mult", "/": "Div", "//": "FloorDiv", "%": "Mod", "@": "MatMult"},
}

func (p *exprParser) parseBinary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.parseFactor()
	}

	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.curr.Type == TokenOp {
		op, ok := binaryLevels[level][p.curr.Value]
		if !ok {
			break
		}
		p.advance()
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = BinOpExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseFactor parses unary operators. A sign applied to a numeric literal
// is folded into the constant.
func (p *exprParser) parseFactor() (Expr, error) {
	var op string
	switch {
	case p.isOp("-"):
		op = "USub"
	case p.isOp("+"):
		op = "UAdd"
	case p.isOp("~"):
		op = "Invert"
	default:
		return p.parsePower()
	}
	p.advance()

	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if c, ok := operand.(ConstExpr); ok && op != "Invert" {
		switch v := c.Value.(type) {
		case int:
			if op == "USub" {
				v = -v
			}
			return ConstExpr{Value: v}, nil
		case float64:
			if op == "USub" {
				v = -v
			}
			return ConstExpr{Value: v}, nil
		}
	}
	return UnaryOpExpr{Op: op, Operand: operand}, nil
}

func (p *exprParser) parsePower() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.isOp("**") {
		p.advance()
		exp, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return BinOpExpr{Op: "Pow", Left: base, Right: exp}, nil
	}
	return base, nil
}

// parsePrimary parses an atom followed by attribute, call and subscript
// trailers.
func (p *exprParser) parsePrimary() (Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.isOp("."):
			p.advance()
			if p.curr.Type != TokenName || isReserved(p.curr.Value) {
				return nil, p.syntaxError()
			}
			e = AttributeExpr{Value: e, Attr: p.curr.Value}
			p.advance()
		case p.isOp("("):
			p.advance()
			call, err := p.parseCallArgs(e)
			if err != nil {
				return nil, err
			}
			e = call
		case p.isOp("["):
			p.advance()
			index, err := p.parseExprList("]")
			if err != nil {
				return nil, err
			}
			if err := p.expectOp("]"); err != nil {
				return nil, err
			}
			e = SubscriptExpr{Value: e, Index: index}
		default:
			return e, nil
		}
	}
}

func (p *exprParser) parseCallArgs(fn Expr) (Expr, error) {
	call := CallExpr{Func: fn}
	for !p.isOp(")") {
		if p.curr.Type == TokenName && !isReserved(p.curr.Value) && p.peek.Type == TokenOp && p.peek.Value == "=" {
			call.Keywords = append(call.Keywords, p.curr.Value)
			p.advance()
			p.advance()
			if _, err := p.parseOr(); err != nil {
				return nil, err
			}
		} else {
			if len(call.Keywords) > 0 {
				return nil, p.syntaxError()
			}
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}

		if !p.isOp(",") {
			break
		}
		p.advance()
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *exprParser) parseAtom() (Expr, error) {
	tok := p.curr
	switch tok.Type {
	case TokenName:
		if isReserved(tok.Value) {
			return nil, p.syntaxError()
		}
		p.advance()
		switch tok.Value {
		case "True":
			return ConstExpr{Value: true}, nil
		case "False":
			return ConstExpr{Value: false}, nil
		case "None":
			return ConstExpr{Value: nil}, nil
		}
		return NameExpr{Name: tok.Value}, nil

	case TokenNumber:
		p.advance()
		return ConstExpr{Value: tok.Lit}, nil

	case TokenString:
		// Adjacent string literals concatenate.
		var sb strings.Builder
		for p.curr.Type == TokenString {
			sb.WriteString(p.curr.Lit.(string))
			p.advance()
		}
		return ConstExpr{Value: sb.String()}, nil

	case TokenOp:
		switch tok.Value {
		case "(":
			p.advance()
			e, err := p.parseExprList(")")
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return e, nil
		case "[":
			p.advance()
			elems, err := p.parseElems("]")
			if err != nil {
				return nil, err
			}
			return SeqExpr{Type: "List", Elems: elems}, nil
		case "{":
			p.advance()
			return p.parseBraces()
		}
	}
	return nil, p.syntaxError()
}

// parseElems parses the comma-separated elements of a display up to and
// including closer.
func (p *exprParser) parseElems(closer string) ([]Expr, error) {
	var elems []Expr
	for !p.isOp(closer) {
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if !p.isOp(",") {
			break
		}
		p.advance()
	}
	if err := p.expectOp(closer); err != nil {
		return nil, err
	}
	return elems, nil
}

// parseBraces parses a set or dict display. Empty braces are a dict.
func (p *exprParser) parseBraces() (Expr, error) {
	if p.isOp("}") {
		p.advance()
		return DictExpr{}, nil
	}

	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.isOp(":") {
		rest, err := p.parseRest(first)
		if err != nil {
			return nil, err
		}
		return SeqExpr{Type: "Set", Elems: rest}, nil
	}

	dict := DictExpr{}
	key := first
	for {
		if err := p.expectOp(":"); err != nil {
			return nil, err
		}
		value, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, value)

		if !p.isOp(",") {
			break
		}
		p.advance()
		if p.isOp("}") {
			break
		}
		if key, err = p.parseOr(); err != nil {
			return nil, err
		}
	}
	if err := p.expectOp("}"); err != nil {
		return nil, err
	}
	return dict, nil
}

func (p *exprParser) parseRest(first Expr) ([]Expr, error) {
	if !p.isOp(",") {
		if err := p.expectOp("}"); err != nil {
			return nil, err
		}
		return []Expr{first}, nil
	}
	p.advance()
	rest, err := p.parseElems("}")
	if err != nil {
		return nil, err
	}
	return append([]Expr{first}, rest...), nil
}
