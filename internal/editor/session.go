// Package editor renders method arguments as an annotated YAML document,
// lets the user edit it and reads the result back into positional
// arguments.
package editor

import (
	"context"
	"errors"

	"github.com/aidanlsb/rpcsh/internal/rpc"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

var (
	// ErrAborted is returned when the user abandons the edit.
	ErrAborted = errors.New("aborted")

	// ErrPrinted is returned by editors that print the template instead of
	// collecting arguments.
	ErrPrinted = errors.New("template printed")
)

// Failure is an error that was reported to the user and ends the session.
type Failure struct {
	Title string
	Text  string
}

func (f *Failure) Error() string {
	return f.Title + ": " + f.Text
}

// Document is the argument document of one editor session.
type Document struct {
	Name    string // Method name, used for temp file names
	Accepts []schema.SchemaNode
	Values  []any
	Errors  []rpc.ValidationError
}

// Render returns the YAML template for the document's current state.
func (d *Document) Render() string {
	return Render(d.Accepts, d.Values, d.Errors)
}

// Editor collects arguments for a document.
type Editor interface {
	// Available reports whether the editor can be used at all.
	Available() bool

	// Edit returns the arguments read from the user.
	Edit(ctx context.Context, doc *Document) ([]any, error)

	// OnError reports a failed call. A nil return means retry.
	OnError(ctx context.Context, title, text string) error
}

// Run edits doc and invokes the result until the call succeeds or the
// user gives up. Rejected arguments are fed back into the next edit along
// with the validation errors.
func Run(ctx context.Context, ed Editor, doc *Document, invoke func(context.Context, []any) (any, error)) (any, error) {
	for {
		args, err := ed.Edit(ctx, doc)
		if err != nil {
			return nil, err
		}

		result, err := invoke(ctx, args)
		if err == nil {
			return result, nil
		}

		var verrs *rpc.ValidationErrors
		var cerr *rpc.CallError
		switch {
		case errors.As(err, &verrs):
			doc.Values = args
			doc.Errors = verrs.Errors
			err = ed.OnError(ctx, "Validation Errors", verrs.Format())
		case errors.As(err, &cerr):
			doc.Values = args
			doc.Errors = nil
			err = ed.OnError(ctx, "Error", "Error: "+cerr.Message)
		default:
			return nil, err
		}
		if err != nil {
			return nil, err
		}
	}
}

// describe returns the title and text used to report a document error.
func describe(err error) (string, string) {
	var syntaxErr *DocumentSyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Title(), syntaxErr.Text()
	}
	return "Semantic Error", err.Error()
}
