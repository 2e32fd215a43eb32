package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aidanlsb/rpcsh/internal/commands"
	"github.com/aidanlsb/rpcsh/internal/config"
	"github.com/aidanlsb/rpcsh/internal/history"
	"github.com/aidanlsb/rpcsh/internal/log"
	"github.com/aidanlsb/rpcsh/internal/rpc"
	"github.com/aidanlsb/rpcsh/internal/schema"
	"github.com/aidanlsb/rpcsh/internal/shell"
	"github.com/aidanlsb/rpcsh/internal/ui"
)

// session holds everything a shell needs, built from the loaded config.
type session struct {
	cfg       *config.Config
	catalogue *schema.Catalogue
	root      *commands.Namespace
	invoker   rpc.Invoker
	enums     *schema.EnumCache
	log       *log.Logger
	history   *history.Store
}

// loadTree loads the configured catalogue and builds its command tree.
func loadTree(c *config.Config) (*schema.Catalogue, *commands.Namespace, error) {
	source := c.GetCatalogue()
	if source == "" {
		return nil, nil, handleError(ErrCatalogueNotConfigured,
			errors.New("no catalogue configured"),
			"Pass --catalogue <path> or set catalogue in "+getConfigPath())
	}
	cat, err := schema.LoadCached(source, c.GetCacheDir())
	if err != nil {
		return nil, nil, handleError(ErrCatalogueInvalid, err, "")
	}
	root, err := commands.Build(cat)
	if err != nil {
		return nil, nil, handleError(ErrCatalogueInvalid, err, "")
	}
	return cat, root, nil
}

// openSession loads the catalogue and opens the logger. History is only
// opened for interactive sessions.
func openSession(c *config.Config, callLog io.Writer, withHistory bool) (*session, error) {
	cat, root, err := loadTree(c)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: c, catalogue: cat, root: root}

	var responses map[string]any
	if path := c.GetResponses(); path != "" {
		if responses, err = rpc.LoadResponses(path); err != nil {
			return nil, handleError(ErrFileReadError, fmt.Errorf("failed to load responses: %w", err), "")
		}
	}
	s.invoker = &rpc.DryRun{Out: callLog, Catalogue: cat, Responses: responses}

	ttl, err := c.EnumTTL()
	if err != nil {
		return nil, handleError(ErrConfigInvalid, err, "")
	}
	// Enum lookups run during completion and must not print over the prompt.
	lookups := &rpc.DryRun{Out: io.Discard, Responses: responses}
	s.enums = schema.NewEnumCache(&rpc.EnumSource{Invoker: lookups}, ttl)

	if s.log, err = log.New(c.GetLogLevel(), c.GetLogDir()); err != nil {
		return nil, handleError(ErrConfigInvalid, err, "")
	}

	if withHistory {
		s.history, err = history.Open(c.GetHistoryFile(), c.GetHistorySize())
		if err != nil {
			// The shell still works without history.
			s.log.Warn("history unavailable", "error", err)
			fmt.Fprintln(os.Stderr, ui.Warning("History disabled: "+err.Error()))
			s.history = nil
		}
	}
	return s, nil
}

// options returns shell options writing to stdout and stderr.
func (s *session) options() shell.Options {
	display := ui.NewDisplayContext(os.Stdout)
	return shell.Options{
		Invoker:     s.invoker,
		Enums:       s.enums,
		Log:         s.log,
		History:     s.history,
		HistorySize: s.cfg.GetHistorySize(),
		Out:         os.Stdout,
		Err:         os.Stderr,
		Prompt:      s.cfg.GetPrompt(),
		Host:        s.cfg.GetHost(),
		StrictLists: s.cfg.StrictLists,
		Width:       display.TermWidth,
		TTY:         ui.NewDisplayContext(os.Stderr).IsTTY,
	}
}

func (s *session) Close() {
	if s.history != nil {
		_ = s.history.Close()
	}
	_ = s.log.Close()
}
