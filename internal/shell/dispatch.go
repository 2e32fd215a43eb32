package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/rpcsh/internal/binder"
	"github.com/aidanlsb/rpcsh/internal/commands"
	"github.com/aidanlsb/rpcsh/internal/editor"
	"github.com/aidanlsb/rpcsh/internal/parser"
	"github.com/aidanlsb/rpcsh/internal/query"
	"github.com/aidanlsb/rpcsh/internal/rpc"
	"github.com/aidanlsb/rpcsh/internal/schema"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

// run executes a command with the argument text that followed its name.
func (s *Shell) run(ctx context.Context, cmd *commands.Command, text string) error {
	if cmd.Variant == commands.Query {
		return s.runQuery(ctx, cmd, text)
	}

	inv, err := parser.ParseWith(text, parser.Options{StrictLists: s.opts.StrictLists})
	if err != nil {
		return err
	}

	accepts := cmd.Method.Accepts
	if cmd.Variant == commands.Update {
		if inv.Interactive || binder.UpdateNeedsEditor(accepts, inv) {
			return s.runUpdateEditor(ctx, cmd, binder.PromoteKey(accepts, inv))
		}
		inv = binder.PromoteKey(accepts, inv)
	} else if inv.Interactive {
		return s.runEditor(ctx, cmd, cmd.EditorMethod, nil, inv.Redirect)
	}

	args, err := binder.Bind(accepts, inv, cmd.Splice)
	if err != nil {
		return err
	}
	result, err := s.invoke(ctx, cmd.Method.Name, args, cmd.Method.Job, inv.Redirect)
	if err != nil {
		return err
	}
	return s.show(cmd, result, inv.Redirect)
}

func (s *Shell) runQuery(ctx context.Context, cmd *commands.Command, text string) error {
	q, err := query.Parse(text)
	if err != nil {
		return err
	}
	result, err := s.invoke(ctx, cmd.Method.Name, q.Args(), cmd.Method.Job, "")
	if err != nil {
		return err
	}
	return s.show(cmd, q.Project(result), "")
}

// runUpdateEditor opens the editor on the current state of the record
// named by the first positional argument.
func (s *Shell) runUpdateEditor(ctx context.Context, cmd *commands.Command, inv *parser.Invocation) error {
	if !s.editorAvailable() {
		return ErrNoEditor
	}
	if len(inv.Positionals) == 0 {
		return errors.New("Please specify object ID")
	}
	key := inv.Positionals[0]

	getter := cmd.Method.ServiceName() + ".get_instance"
	current, err := s.invoke(ctx, getter, []any{key}, false, "")
	if err != nil {
		return fmt.Errorf("Error while calling %s(%s):\n%w", getter, schema.FormatLiteral(key), err)
	}
	obj, _ := current.(map[string]any)

	m, err := schema.WithDefaults(cmd.EditorMethod, 1, obj)
	if err != nil {
		return err
	}
	return s.runEditor(ctx, cmd, m, []any{key, map[string]any{}}, inv.Redirect)
}

// runEditor collects the arguments of cmd in the editor, using the schema
// of m, and calls the method until it succeeds or the user gives up.
func (s *Shell) runEditor(ctx context.Context, cmd *commands.Command, m *schema.Method, values []any, redirect string) error {
	if !s.editorAvailable() {
		return ErrNoEditor
	}
	doc := &editor.Document{Name: cmd.Method.Name, Accepts: m.Accepts, Values: values}
	result, err := editor.Run(ctx, s.opts.Editor, doc, func(ctx context.Context, args []any) (any, error) {
		return s.invoke(ctx, cmd.Method.Name, args, cmd.Method.Job, redirect)
	})
	switch {
	case errors.Is(err, editor.ErrAborted), errors.Is(err, editor.ErrPrinted):
		return nil
	case err != nil:
		return err
	}
	return s.show(cmd, result, redirect)
}

func (s *Shell) editorAvailable() bool {
	return s.opts.Editor != nil && s.opts.Editor.Available()
}

// invoke performs one remote call, showing job progress while it runs.
func (s *Shell) invoke(ctx context.Context, method string, args []any, job bool, redirect string) (any, error) {
	call := rpc.Call{
		ID:       uuid.NewString(),
		Method:   method,
		Args:     args,
		Job:      job,
		Redirect: redirect,
	}
	if job {
		spinner := ui.NewSpinner(s.err, s.opts.TTY, "[0%] Waiting...")
		call.Progress = func(p rpc.Progress) { spinner.SetMessage(p.String()) }
		spinner.Start()
		defer spinner.Stop()
	}

	log := s.log.With("id", call.ID, "method", method)
	log.Debug("call", "args", len(args), "job", job, "redirect", redirect)
	start := time.Now()
	result, err := s.opts.Invoker.Call(ctx, call)
	if err != nil {
		log.Warn("call failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	log.Info("call done", "duration", time.Since(start))
	return result, nil
}

// show prints a call result as YAML unless the command is quiet.
func (s *Shell) show(cmd *commands.Command, result any, redirect string) error {
	if redirect != "" {
		fmt.Fprintln(s.err, ui.Success(fmt.Sprintf("Output saved at %s", redirect)))
		return nil
	}
	if cmd.Quiet || result == nil {
		return nil
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	_, err = s.out.Write(data)
	return err
}
