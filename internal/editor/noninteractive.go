package editor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// NonInteractive reads the argument document from piped input. Any error is
// final.
type NonInteractive struct {
	input     string
	available bool
}

// NewNonInteractive reads f to the end unless it is a terminal, in which
// case the editor is unavailable.
func NewNonInteractive(f *os.File) (*NonInteractive, error) {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return &NonInteractive{}, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read arguments: %w", err)
	}
	return NewNonInteractiveText(string(data)), nil
}

// NewNonInteractiveText returns an editor that always yields text.
func NewNonInteractiveText(text string) *NonInteractive {
	return &NonInteractive{input: text, available: true}
}

func (e *NonInteractive) Available() bool { return e.available }

func (e *NonInteractive) Edit(ctx context.Context, doc *Document) ([]any, error) {
	args, err := Parse(doc.Accepts, e.input)
	if err != nil {
		title, text := describe(err)
		return nil, e.OnError(ctx, title, text)
	}
	return args, nil
}

func (e *NonInteractive) OnError(_ context.Context, title, text string) error {
	return &Failure{Title: title, Text: text}
}
