package cli

import (
	"encoding/json"
	"testing"

	"github.com/aidanlsb/rpcsh/internal/buildinfo"
)

func TestVersionCommandJSONOutput(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := versionCmd.RunE(versionCmd, nil); err != nil {
			t.Fatalf("versionCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool           `json:"ok"`
		Data buildinfo.Info `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Data != buildinfo.Current() {
		t.Errorf("data = %+v, want %+v", resp.Data, buildinfo.Current())
	}
}
