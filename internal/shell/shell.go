// Package shell runs the interactive command loop: namespace navigation,
// builtins and dispatch of commands to the remote side.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/commands"
	"github.com/aidanlsb/rpcsh/internal/editor"
	"github.com/aidanlsb/rpcsh/internal/history"
	"github.com/aidanlsb/rpcsh/internal/log"
	"github.com/aidanlsb/rpcsh/internal/rpc"
	"github.com/aidanlsb/rpcsh/internal/schema"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

// ErrExit is returned by Execute when the user asks to leave the shell.
var ErrExit = errors.New("exit")

// ErrNoEditor is returned when a command needs the editor but none is
// usable.
var ErrNoEditor = errors.New("Interactive command execution requested, but no interactive mode is available")

// NotFoundError reports an unknown namespace or command name.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("Namespace %s not found", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf("\nDid you mean: %s?", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Options configures a Shell. Only Invoker is required.
type Options struct {
	Invoker rpc.Invoker
	Editor  editor.Editor
	Enums   *schema.EnumCache
	Log     *log.Logger
	History *history.Store

	HistorySize int // Stored lines replayed into the line reader

	Out io.Writer
	Err io.Writer

	Prompt      string // Template with %n, %_n and %h
	Host        string
	StrictLists bool
	Width       int  // Output width for ls and man
	TTY         bool // Animate job progress
}

// Shell holds the navigation state of one session.
type Shell struct {
	root    *commands.Namespace
	current *commands.Namespace
	opts    Options
	log     *log.Logger
	out     io.Writer
	err     io.Writer
}

// New creates a shell positioned at root.
func New(root *commands.Namespace, opts Options) *Shell {
	s := &Shell{
		root:    root,
		current: root,
		opts:    opts,
		log:     opts.Log,
		out:     opts.Out,
		err:     opts.Err,
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.err == nil {
		s.err = os.Stderr
	}
	if s.opts.Prompt == "" {
		s.opts.Prompt = "%n> "
	}
	if s.opts.Width <= 0 {
		s.opts.Width = ui.DefaultTermWidth
	}
	return s
}

// Current returns the namespace the shell is in.
func (s *Shell) Current() *commands.Namespace {
	return s.current
}

// Prompt expands the prompt template for the current namespace.
func (s *Shell) Prompt() string {
	path := strings.Join(s.current.Path(), " ")
	spaced := ""
	if path != "" {
		spaced = " " + path
	}
	host, _, _ := strings.Cut(s.opts.Host, ".")
	return strings.NewReplacer("%_n", spaced, "%n", path, "%h", host).Replace(s.opts.Prompt)
}

// Execute runs one input line relative to the current namespace.
func (s *Shell) Execute(ctx context.Context, line string) error {
	return s.process(ctx, s.current, strings.TrimSpace(line))
}

func (s *Shell) process(ctx context.Context, ns *commands.Namespace, line string) error {
	if line == "" {
		return nil
	}
	word, rest := shift(line)
	if b, ok := builtins[word]; ok {
		return b(ctx, s, ns, rest)
	}

	child, ok := ns.Lookup(word)
	if !ok {
		return &NotFoundError{Name: word, Suggestions: ns.Suggest(word, 3)}
	}
	switch c := child.(type) {
	case *commands.Namespace:
		if rest == "" {
			s.current = c
			return nil
		}
		return s.process(ctx, c, rest)
	case *commands.Command:
		return s.run(ctx, c, rest)
	}
	return nil
}

// shift splits off the first whitespace-separated word.
func shift(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeft(line[i:], " \t")
}

// Report prints err the way the shell shows failures.
func (s *Shell) Report(err error) {
	var failure *editor.Failure
	if errors.As(err, &failure) {
		fmt.Fprintln(s.err, ui.Failure(failure.Title, failure.Text))
		return
	}
	fmt.Fprintln(s.err, ui.Error(err.Error()))
}
