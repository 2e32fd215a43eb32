package cli

import (
	"io"
	"os"
	"testing"

	"github.com/aidanlsb/rpcsh/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	prev := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	defer func() { os.Stdout = prev }()
	fn()
	w.Close()
	return <-done
}

// withConfig installs c as the loaded config for the duration of the test.
func withConfig(t *testing.T, c *config.Config, path string) {
	t.Helper()
	prevCfg, prevPath, prevJSON := cfg, resolvedConfigPath, jsonOutput
	t.Cleanup(func() {
		cfg, resolvedConfigPath, jsonOutput = prevCfg, prevPath, prevJSON
	})
	cfg, resolvedConfigPath, jsonOutput = c, path, false
}
