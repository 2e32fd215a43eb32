package shell

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"

	"github.com/aidanlsb/rpcsh/internal/commands"
	"github.com/aidanlsb/rpcsh/internal/parser"
	"github.com/aidanlsb/rpcsh/internal/schema"
)

// Complete proposes completions for text, the input left of the cursor.
func (s *Shell) Complete(ctx context.Context, text string) []parser.Candidate {
	return s.complete(ctx, s.current, text, false)
}

func (s *Shell) complete(ctx context.Context, ns *commands.Namespace, text string, namesOnly bool) []parser.Candidate {
	text = strings.TrimLeft(text, " \t")
	i := strings.IndexAny(text, " \t")
	if i < 0 {
		var out []parser.Candidate
		for _, name := range ns.Complete(text) {
			out = append(out, parser.Candidate{Text: name, Replace: len(text)})
		}
		return out
	}

	word, rest := text[:i], text[i:]
	if word == "man" || word == "ls" {
		return s.complete(ctx, ns, rest, true)
	}
	child, ok := ns.Lookup(word)
	if !ok {
		return nil
	}
	switch c := child.(type) {
	case *commands.Namespace:
		return s.complete(ctx, c, rest, namesOnly)
	case *commands.Command:
		if namesOnly {
			return nil
		}
		return c.Complete(strings.TrimLeft(rest, " \t"), s.enumValues(ctx))
	}
	return nil
}

// enumValues resolves late-bound enumerations for completion. Failures
// are logged and yield no candidates.
func (s *Shell) enumValues(ctx context.Context) func(*schema.ScalarNode) []any {
	return func(n *schema.ScalarNode) []any {
		values, err := s.opts.Enums.Values(ctx, n)
		if err != nil {
			s.log.Warn("enum lookup failed", "source", n.EnumSource, "error", err)
			return nil
		}
		return values
	}
}

// completer adapts Complete to readline, which can only append to the
// word under the cursor.
type completer struct {
	s   *Shell
	ctx context.Context
}

var _ readline.AutoCompleter = (*completer)(nil)

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos > len(line) {
		pos = len(line)
	}
	text := string(line[:pos])

	var (
		out    [][]rune
		length int
	)
	for _, cand := range c.s.Complete(c.ctx, text) {
		if cand.Replace > len(text) {
			continue
		}
		typed := text[len(text)-cand.Replace:]
		if !strings.HasPrefix(cand.Text, typed) {
			continue
		}
		out = append(out, []rune(cand.Text[len(typed):]))
		length = utf8.RuneCountInString(typed)
	}
	return out, length
}

// Completer returns the readline completer for this shell.
func (s *Shell) Completer(ctx context.Context) readline.AutoCompleter {
	return &completer{s: s, ctx: ctx}
}
