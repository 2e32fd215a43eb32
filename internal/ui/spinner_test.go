package ui

import (
	"bytes"
	"testing"
)

func TestSpinnerWithoutTerminalPrintsEachMessageOnce(t *testing.T) {
	var out bytes.Buffer
	s := NewSpinner(&out, false, "[0%] Waiting...")
	s.Start()
	s.SetMessage("[0%] Waiting...")
	s.SetMessage("[50%] Copying...")
	s.SetMessage("[100%] Done...")
	s.Stop()

	want := "[0%] Waiting...\n[50%] Copying...\n[100%] Done...\n"
	if got := out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
