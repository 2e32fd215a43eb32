package ui

import (
	"fmt"
	"strings"
)

// Status markers printed before one-line messages.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Error returns an error message with X symbol. Continuation lines, such
// as the excerpt and caret of a syntax error, are indented to line up with
// the message.
func Error(msg string) string {
	return fmt.Sprintf("%s %s", SymbolError, indentContinuation(msg, "  "))
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// Failure renders a titled multi-line report, like a validation error list.
func Failure(title, text string) string {
	return Header(title) + "\n" + strings.TrimRight(text, "\n")
}

// Namespace returns an accent-styled namespace or command name
func Namespace(name string) string {
	return Accent.Render(name)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

func indentContinuation(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}
