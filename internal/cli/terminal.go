package cli

import (
	"context"

	"github.com/chzyer/readline"

	"github.com/aidanlsb/rpcsh/internal/editor"
	"github.com/aidanlsb/rpcsh/internal/shell"
)

// terminal is a readline line reader that can hand the terminal to another
// program. readline keeps reading stdin in the background, so the instance
// is closed before an editor runs and opened again on the next Readline.
type terminal struct {
	complete readline.AutoCompleter
	limit    int

	rl      *readline.Instance
	prompt  string
	history []string
}

var _ shell.LineReader = (*terminal)(nil)

func newTerminal(limit int) *terminal {
	return &terminal{limit: limit}
}

func (t *terminal) open() error {
	if t.rl != nil {
		return nil
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 t.prompt,
		AutoComplete:           t.complete,
		HistoryLimit:           t.limit,
		DisableAutoSaveHistory: true,
		HistorySearchFold:      true,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
	})
	if err != nil {
		return err
	}
	for _, line := range t.history {
		_ = rl.SaveHistory(line)
	}
	t.rl = rl
	return nil
}

func (t *terminal) SetPrompt(prompt string) {
	t.prompt = prompt
	if t.rl != nil {
		t.rl.SetPrompt(prompt)
	}
}

func (t *terminal) Readline() (string, error) {
	if err := t.open(); err != nil {
		return "", err
	}
	return t.rl.Readline()
}

func (t *terminal) SaveHistory(line string) error {
	t.history = append(t.history, line)
	if t.limit > 0 && len(t.history) > t.limit {
		t.history = t.history[len(t.history)-t.limit:]
	}
	if t.rl != nil {
		return t.rl.SaveHistory(line)
	}
	return nil
}

// Suspend releases the terminal until the next Readline.
func (t *terminal) Suspend() {
	if t.rl == nil {
		return
	}
	_ = t.rl.Close()
	t.rl = nil
}

func (t *terminal) Close() error {
	t.Suspend()
	return nil
}

// suspendingText runs a text editor with the terminal suspended.
type suspendingText struct {
	editor.TextEditor
	term *terminal
}

func (s suspendingText) EditText(ctx context.Context, name, text string) (string, error) {
	s.term.Suspend()
	return s.TextEditor.EditText(ctx, name, text)
}

// suspendingConfirm wraps a retry prompt so it reads stdin directly.
func suspendingConfirm(term *terminal, confirm func(title, text string) bool) func(title, text string) bool {
	return func(title, text string) bool {
		term.Suspend()
		return confirm(title, text)
	}
}
