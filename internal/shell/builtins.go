package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aidanlsb/rpcsh/internal/commands"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

type builtin func(ctx context.Context, s *Shell, ns *commands.Namespace, rest string) error

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"..":   back,
		"/":    root,
		"exit": exit,
		"quit": exit,
		"ls":   list,
		"man":  manual,
		"?":    help,
		"help": help,
	}
}

// back and root accept the rest of the line as input for their target.
func back(ctx context.Context, s *Shell, ns *commands.Namespace, rest string) error {
	if ns.Parent != nil {
		s.current = ns.Parent
	} else {
		s.current = ns
	}
	return s.process(ctx, s.current, rest)
}

func root(ctx context.Context, s *Shell, _ *commands.Namespace, rest string) error {
	s.current = s.root
	return s.process(ctx, s.current, rest)
}

func exit(context.Context, *Shell, *commands.Namespace, string) error {
	return ErrExit
}

func list(_ context.Context, s *Shell, ns *commands.Namespace, rest string) error {
	if rest != "" {
		node, ok := ns.Find(strings.Fields(rest))
		if !ok {
			return &NotFoundError{Name: rest}
		}
		child, ok := node.(*commands.Namespace)
		if !ok {
			return fmt.Errorf("%s is a command", rest)
		}
		ns = child
	}

	table := ui.NewTable(2)
	table.SetMaxWidth(s.opts.Width)
	for _, name := range ns.Names() {
		node, _ := ns.Lookup(name)
		label := name
		if _, isNS := node.(*commands.Namespace); isNS {
			label = ui.Namespace(name)
		}
		table.AddRow(label, ui.Summary(node.Summary()))
	}
	fmt.Fprint(s.out, table.String())
	return nil
}

func manual(_ context.Context, s *Shell, ns *commands.Namespace, rest string) error {
	if rest == "" {
		return errors.New("usage: man <command>")
	}
	node, ok := ns.Find(strings.Fields(rest))
	if !ok {
		return &NotFoundError{Name: rest}
	}

	var md string
	switch n := node.(type) {
	case *commands.Command:
		md = commandManual(n)
	case *commands.Namespace:
		md = namespaceManual(n)
	}
	rendered, err := ui.RenderMarkdown(md, s.opts.Width)
	if err != nil {
		s.log.Warn("render manual", "error", err)
		rendered = md
	}
	fmt.Fprint(s.out, rendered)
	return nil
}

func help(_ context.Context, s *Shell, _ *commands.Namespace, _ string) error {
	table := ui.NewTable(2)
	table.AddRow("..", "Go to the parent namespace")
	table.AddRow("/", "Go to the root namespace")
	table.AddRow("ls [namespace]", "List namespaces and commands")
	table.AddRow("man <command>", "Show the manual of a command")
	table.AddRow("?, help", "Show this help")
	table.AddRow("exit, quit", "Leave the shell")

	fmt.Fprintln(s.out, ui.Header("Builtins"))
	fmt.Fprint(s.out, table.String())
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, ui.Header("Arguments"))
	fmt.Fprintln(s.out, "  command value... name=value... [--] [> file]")
	fmt.Fprintln(s.out, ui.Hint("  -- opens the arguments editor, > file saves the output"))
	return nil
}
