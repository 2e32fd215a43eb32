package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TokenEOF    TokenType = iota
	TokenName             // identifiers and word operators like "and", "in"
	TokenNumber           // 1, 0x1f, 1.5e3
	TokenString           // 'abc', "abc", r'\d'
	TokenOp               // punctuation and symbolic operators
	TokenError            // error token
)

// Token represents a lexer token.
type Token struct {
	Type  TokenType
	Value string // Source text, or the operator for TokenOp
	Pos   int
	Lit   any // Decoded value of number and string tokens
}

var numberRe = regexp.MustCompile(`^(?:0[xX][0-9a-fA-F]+|0[oO][0-7]+|0[bB][01]+|(?:\d+\.\d*|\.\d+|\d+)(?:[eE][+-]?\d+)?)`)

// Longest operators first.
var operators = []string{
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ".", ":", "=",
}

// Lexer tokenizes a WHERE expression.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}
	}

	ch := l.input[l.pos]
	switch {
	case ch == '\'' || ch == '"':
		return l.scanString(l.pos, false)
	case (ch == 'r' || ch == 'R') && l.pos+1 < len(l.input) && (l.input[l.pos+1] == '\'' || l.input[l.pos+1] == '"'):
		return l.scanString(l.pos, true)
	case isIdentStart(ch):
		return l.scanIdent()
	case isDigit(ch) || (ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])):
		return l.scanNumber()
	}

	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			tok := Token{Type: TokenOp, Value: op, Pos: l.pos}
			l.pos += len(op)
			return tok
		}
	}

	start := l.pos
	l.pos++
	return Token{Type: TokenError, Value: string(ch), Pos: start}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	return Token{Type: TokenName, Value: l.input[start:l.pos], Pos: start}
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	text := numberRe.FindString(l.input[l.pos:])
	l.pos += len(text)

	var lit any
	switch {
	case len(text) > 1 && text[0] == '0' && strings.ContainsAny(text[1:2], "xXoObB"):
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return Token{Type: TokenError, Value: text, Pos: start}
		}
		lit = int(n)
	case strings.ContainsAny(text, ".eE"):
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{Type: TokenError, Value: text, Pos: start}
		}
		lit = f
	default:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(text, 64)
			if ferr != nil {
				return Token{Type: TokenError, Value: text, Pos: start}
			}
			lit = f
		} else {
			lit = int(n)
		}
	}
	return Token{Type: TokenNumber, Value: text, Pos: start, Lit: lit}
}

// scanString scans a single-line quoted string. Raw strings keep
// backslashes; unknown escapes are kept as written.
func (l *Lexer) scanString(start int, raw bool) Token {
	l.pos = start
	if raw {
		l.pos++
	}
	quote := l.input[l.pos]
	l.pos++

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == quote:
			l.pos++
			return Token{Type: TokenString, Value: l.input[start:l.pos], Pos: start, Lit: sb.String()}
		case ch == '\n':
			return Token{Type: TokenError, Value: l.input[start:l.pos], Pos: start}
		case ch == '\\' && l.pos+1 < len(l.input):
			if raw {
				sb.WriteString(l.input[l.pos : l.pos+2])
				l.pos += 2
				continue
			}
			l.pos += l.unescape(&sb)
		default:
			sb.WriteByte(ch)
			l.pos++
		}
	}
	return Token{Type: TokenError, Value: l.input[start:], Pos: start}
}

// unescape decodes the escape sequence at l.pos into sb and returns its
// length.
func (l *Lexer) unescape(sb *strings.Builder) int {
	next := l.input[l.pos+1]
	switch next {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case '\\', '\'', '"':
		sb.WriteByte(next)
	case 'x', 'u':
		size := 2
		if next == 'u' {
			size = 4
		}
		end := l.pos + 2 + size
		if end <= len(l.input) {
			if n, err := strconv.ParseUint(l.input[l.pos+2:end], 16, 32); err == nil {
				sb.WriteRune(rune(n))
				return 2 + size
			}
		}
		sb.WriteString(l.input[l.pos : l.pos+2])
	default:
		sb.WriteString(l.input[l.pos : l.pos+2])
	}
	return 2
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
