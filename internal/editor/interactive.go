package editor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/ui"
)

// TextEditor edits a piece of text, typically in an external program.
type TextEditor interface {
	EditText(ctx context.Context, name, text string) (string, error)
}

// Interactive runs a text editor over the rendered template and asks
// whether to retry when the result cannot be used.
type Interactive struct {
	Text    TextEditor
	Confirm func(title, text string) bool
}

func (e *Interactive) Available() bool { return e.Text != nil }

func (e *Interactive) Edit(ctx context.Context, doc *Document) ([]any, error) {
	text := doc.Render()
	for {
		edited, err := e.Text.EditText(ctx, doc.Name, text)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(edited) == "" {
			return nil, ErrAborted
		}

		args, err := Parse(doc.Accepts, edited)
		if err == nil {
			return args, nil
		}

		title, body := describe(err)
		if !e.confirm(title, body) {
			return nil, ErrAborted
		}
		// Reopen what the user wrote rather than a fresh template.
		text = edited
	}
}

func (e *Interactive) OnError(_ context.Context, title, text string) error {
	if e.confirm(title, text) {
		return nil
	}
	return ErrAborted
}

func (e *Interactive) confirm(title, text string) bool {
	if e.Confirm == nil {
		return false
	}
	return e.Confirm(title, text)
}

// PromptRetry returns a Confirm function asking on out and reading the
// answer from in.
func PromptRetry(in io.Reader, out io.Writer) func(title, text string) bool {
	reader := bufio.NewReader(in)
	return func(title, text string) bool {
		fmt.Fprintln(out, ui.Failure(title, text))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Would you like to open editor and correct this error or quit the process? %s ", ui.Hint("[y/N]"))

		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		return response == "y" || response == "yes"
	}
}
