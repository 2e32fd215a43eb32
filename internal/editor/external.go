package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gosimple/slug"

	"github.com/aidanlsb/rpcsh/internal/shellquote"
)

// External edits text in a temporary file with an external program.
// Command may carry arguments, e.g. "code --wait"; the file name is
// appended.
type External struct {
	Command string
	Dir     string // Where temp files go; empty means the system default

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (e *External) EditText(ctx context.Context, name, text string) (string, error) {
	argv, err := shellquote.Split(e.Command)
	if err != nil {
		return "", fmt.Errorf("editor command: %w", err)
	}
	if len(argv) == 0 {
		return "", errors.New("no editor configured")
	}

	f, err := os.CreateTemp(e.Dir, "rpcsh-"+slug.Make(name)+"-*.yaml")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = orStdin(e.Stdin)
	cmd.Stdout = orFile(e.Stdout, os.Stdout)
	cmd.Stderr = orFile(e.Stderr, os.Stderr)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", argv[0], err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return string(data), nil
}

func orStdin(r io.Reader) io.Reader {
	if r == nil {
		return os.Stdin
	}
	return r
}

func orFile(w io.Writer, f *os.File) io.Writer {
	if w == nil {
		return f
	}
	return w
}
