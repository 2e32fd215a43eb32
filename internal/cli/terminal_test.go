package cli

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTerminalKeepsRecentHistory(t *testing.T) {
	term := newTerminal(2)
	for _, line := range []string{"ls", "account", "exit"} {
		if err := term.SaveHistory(line); err != nil {
			t.Fatalf("SaveHistory(%q): %v", line, err)
		}
	}
	if diff := cmp.Diff([]string{"account", "exit"}, term.history); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	term.SetPrompt("[nas]> ")
	if term.prompt != "[nas]> " {
		t.Errorf("prompt = %q", term.prompt)
	}
	// Suspending a terminal that was never opened is a no-op.
	term.Suspend()
	if err := term.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

type recordingText struct {
	names []string
}

func (r *recordingText) EditText(_ context.Context, name, text string) (string, error) {
	r.names = append(r.names, name)
	return text + "id: 1\n", nil
}

func TestSuspendingText(t *testing.T) {
	inner := &recordingText{}
	ed := suspendingText{TextEditor: inner, term: newTerminal(10)}

	got, err := ed.EditText(context.Background(), "user.update", "# id:\n")
	if err != nil {
		t.Fatalf("EditText: %v", err)
	}
	if got != "# id:\nid: 1\n" {
		t.Errorf("edited = %q", got)
	}
	if diff := cmp.Diff([]string{"user.update"}, inner.names); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	asked := 0
	confirm := suspendingConfirm(ed.term, func(title, text string) bool {
		asked++
		return title == "Validation Errors"
	})
	if !confirm("Validation Errors", "* id: Not found") || asked != 1 {
		t.Errorf("confirm was not passed through (asked %d)", asked)
	}
}
