package editor

import (
	"context"
	"fmt"
	"io"
)

// PrintTemplate writes the rendered template to Out instead of editing.
type PrintTemplate struct {
	Out io.Writer
}

func (e *PrintTemplate) Available() bool { return true }

func (e *PrintTemplate) Edit(_ context.Context, doc *Document) ([]any, error) {
	fmt.Fprintln(e.Out, doc.Render())
	return nil, ErrPrinted
}

func (e *PrintTemplate) OnError(_ context.Context, title, text string) error {
	return &Failure{Title: title, Text: text}
}
