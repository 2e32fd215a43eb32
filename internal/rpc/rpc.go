// Package rpc defines the boundary between the shell and the remote side.
package rpc

import (
	"context"
	"fmt"
	"strings"
)

// Call is one remote method invocation.
type Call struct {
	ID       string // Unique per invocation, used for logging
	Method   string
	Args     []any
	Job      bool   // Long-running; Progress receives updates
	Redirect string // Write the result to this path instead of returning it

	Progress func(Progress)
}

// Progress is a job progress update.
type Progress struct {
	Percent     float64
	Description string
}

func (p Progress) String() string {
	return fmt.Sprintf("[%d%%] %s...", int(p.Percent), p.Description)
}

// Invoker performs remote calls.
type Invoker interface {
	Call(ctx context.Context, call Call) (any, error)
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, call Call) (any, error)

func (f InvokerFunc) Call(ctx context.Context, call Call) (any, error) {
	return f(ctx, call)
}

// ValidationError is a rejection of one attribute. Path is dot-joined from
// the argument name, e.g. "user_create.groups.1".
type ValidationError struct {
	Path    string
	Message string
}

// MsgAttributeRequired is the message for a missing required attribute.
const MsgAttributeRequired = "attribute required"

// EditorHint suggests the interactive editor for incomplete calls.
const EditorHint = "Hint: Add -- to the end of the command to open an interactive arguments editor"

// ValidationErrors is returned by an Invoker when the remote side rejects
// the arguments.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	msg := "Validation errors:\n" + e.Format()
	if e.missingAttribute() {
		msg += "\n" + EditorHint
	}
	return msg
}

// Format lists the errors one per line as "* path: message".
func (e *ValidationErrors) Format() string {
	lines := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		if ve.Path != "" {
			lines[i] = fmt.Sprintf("* %s: %s", ve.Path, ve.Message)
		} else {
			lines[i] = "* " + ve.Message
		}
	}
	return strings.Join(lines, "\n")
}

func (e *ValidationErrors) missingAttribute() bool {
	for _, ve := range e.Errors {
		if ve.Message == MsgAttributeRequired {
			return true
		}
	}
	return false
}

// CallError is any other failure reported by the remote side.
type CallError struct {
	Method  string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Message)
}
