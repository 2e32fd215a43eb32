package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error is a syntax error with a caret pointing at the offending column.
type Error struct {
	Msg  string // e.g. "Expected end of text, found '1'"
	Line string // The source line
	Pos  int    // Byte offset of the failure in Line
}

// NewError creates an Error at byte offset pos of line.
func NewError(msg, line string, pos int) *Error {
	return &Error{Msg: msg, Line: line, Pos: pos}
}

// Expected creates an Error of the form "Expected <what>, found <char>".
func Expected(what, line string, pos int) *Error {
	return NewError(fmt.Sprintf("Expected %s, found %s", what, Found(line, pos)), line, pos)
}

// Found describes the character at pos the way error messages quote it.
func Found(line string, pos int) string {
	if pos >= len(line) {
		return "end of text"
	}
	r, _ := utf8.DecodeRuneInString(line[pos:])
	return "'" + string(r) + "'"
}

// Column returns the 1-based column of the failure.
func (e *Error) Column() int {
	pos := e.Pos
	if pos > len(e.Line) {
		pos = len(e.Line)
	}
	return utf8.RuneCountInString(e.Line[:pos]) + 1
}

func (e *Error) Error() string {
	return e.Msg + "\n " + strings.TrimRight(e.Line, " \t\r\n") + "\n" + strings.Repeat(" ", e.Column()) + "^"
}
