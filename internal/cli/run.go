package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/rpcsh/internal/config"
	"github.com/aidanlsb/rpcsh/internal/editor"
	"github.com/aidanlsb/rpcsh/internal/shell"
)

func runRoot(cmd *cobra.Command, args []string) error {
	if commandLine == "" && (interactive || printTemplate) {
		return handleError(ErrInvalidInput, errors.New("--interactive and --print-template require --command"), "")
	}

	c := getConfig()
	ctx := commandContext(cmd)

	if commandLine != "" {
		sess, err := openSession(c, os.Stderr, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		opts := sess.options()
		if opts.Editor, err = commandEditor(c); err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		sh := shell.New(sess.root, opts)
		if err := sh.Execute(ctx, commandLine); err != nil && !errors.Is(err, shell.ErrExit) {
			sh.Report(err)
			return errReported
		}
		return nil
	}

	sess, err := openSession(c, os.Stderr, true)
	if err != nil {
		return err
	}
	defer sess.Close()

	opts := sess.options()
	term := newTerminal(opts.HistorySize)
	defer term.Close()
	opts.Editor = &editor.Interactive{
		Text:    suspendingText{TextEditor: externalEditor(c), term: term},
		Confirm: suspendingConfirm(term, editor.PromptRetry(os.Stdin, os.Stderr)),
	}

	sh := shell.New(sess.root, opts)
	term.complete = sh.Completer(ctx)
	sess.log.Info("session started", "catalogue", c.GetCatalogue(), "methods", len(sess.catalogue.Methods))
	return sh.Run(ctx, term)
}

// commandEditor picks the argument editor for a single -c command line.
func commandEditor(c *config.Config) (editor.Editor, error) {
	switch {
	case interactive:
		return &editor.Interactive{
			Text:    externalEditor(c),
			Confirm: editor.PromptRetry(os.Stdin, os.Stderr),
		}, nil
	case printTemplate:
		return &editor.PrintTemplate{Out: os.Stdout}, nil
	default:
		return editor.NewNonInteractive(os.Stdin)
	}
}

func externalEditor(c *config.Config) *editor.External {
	return &editor.External{Command: c.GetEditor()}
}

// commandContext returns the command's context, which is unset when a
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
