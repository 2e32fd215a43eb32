package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/aidanlsb/rpcsh/internal/history"
)

// LineReader reads prompted input lines and keeps their history.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	SaveHistory(line string) error
}

// DefaultHistorySize is how many stored lines are loaded into the line
// reader at startup when Options.HistorySize is unset.
const DefaultHistorySize = 500

// Run reads lines from in until exit or end of input. Errors are reported
// and never end the loop. Ctrl-C while a command runs cancels that command
// only.
func (s *Shell) Run(ctx context.Context, in LineReader) error {
	s.loadHistory(ctx, in)

	for {
		in.SetPrompt(s.Prompt())
		line, err := in.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := in.SaveHistory(line); err != nil {
			s.log.Warn("save history", "error", err)
		}

		namespace := strings.Join(s.current.Path(), " ")
		err = s.executeInterruptible(ctx, line)
		s.record(ctx, history.Entry{Line: line, Namespace: namespace, OK: err == nil || errors.Is(err, ErrExit), At: time.Now()})
		if errors.Is(err, ErrExit) {
			return nil
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.Report(err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *Shell) executeInterruptible(ctx context.Context, line string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return s.Execute(ctx, line)
}

// loadHistory replays stored lines into the line reader.
func (s *Shell) loadHistory(ctx context.Context, in LineReader) {
	if s.opts.History == nil {
		return
	}
	limit := s.opts.HistorySize
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	entries, err := s.opts.History.Recent(ctx, limit)
	if err != nil {
		s.log.Warn("load history", "error", err)
		return
	}
	for _, e := range entries {
		_ = in.SaveHistory(e.Line)
	}
}

func (s *Shell) record(ctx context.Context, e history.Entry) {
	if s.opts.History == nil {
		return
	}
	if err := s.opts.History.Add(ctx, e); err != nil {
		s.log.Warn("record history", "error", err)
	}
}
