package cli

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/rpcsh/internal/config"
)

func setRootFlags(t *testing.T, line string, template bool) {
	t.Helper()
	prevLine, prevInteractive, prevTemplate := commandLine, interactive, printTemplate
	t.Cleanup(func() {
		commandLine, interactive, printTemplate = prevLine, prevInteractive, prevTemplate
	})
	commandLine, interactive, printTemplate = line, false, template
}

func TestRunCommandPrintTemplate(t *testing.T) {
	c := catalogueConfig(t)
	c.LogDir = t.TempDir()
	withConfig(t, c, "")
	setRootFlags(t, "account user create --", true)

	out := captureStdout(t, func() {
		if err := runRoot(rootCmd, nil); err != nil {
			t.Fatalf("runRoot: %v", err)
		}
	})
	want := "# Object: user_create\nuser_create:\n  # String: Username\n  username:\n\n\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunCommandFailureIsReported(t *testing.T) {
	c := catalogueConfig(t)
	c.LogDir = t.TempDir()
	withConfig(t, c, "")
	setRootFlags(t, "bogus", true)

	if err := runRoot(rootCmd, nil); !errors.Is(err, errReported) {
		t.Errorf("error = %v, want errReported", err)
	}
}

func TestEditorFlagsNeedCommand(t *testing.T) {
	withConfig(t, &config.Config{}, "")
	setRootFlags(t, "", true)

	if err := runRoot(rootCmd, nil); err == nil {
		t.Error("expected an error for --print-template without --command")
	}
}
