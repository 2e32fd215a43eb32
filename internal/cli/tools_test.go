package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aidanlsb/rpcsh/internal/config"
)

const testCatalogue = `{
  "services": {
    "user": {"kind": "crud", "namespace": "account.user", "description": "Local users"},
    "system": {"kind": "plain", "namespace": "system", "description": "System"}
  },
  "methods": {
    "user.create": {
      "description": "Create a user",
      "accepts": [
        {"name": "user_create", "type": "object", "description": "user_create", "properties": {
          "username": {"type": "string", "description": "Username", "required": true}
        }}
      ]
    },
    "system.info": {"description": "Returns basic system information.", "accepts": []}
  }
}`

// catalogueConfig writes the test catalogue and returns a config using it.
func catalogueConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "catalogue.json")
	if err := os.WriteFile(path, []byte(testCatalogue), 0644); err != nil {
		t.Fatal(err)
	}
	return &config.Config{Catalogue: path, CacheDir: filepath.Join(dir, "cache")}
}

func TestFormatCommand(t *testing.T) {
	withConfig(t, &config.Config{}, "")

	out := captureStdout(t, func() {
		if err := formatCmd.RunE(formatCmd, []string{"55 uid=1000 groups=[1, 2]"}); err != nil {
			t.Fatalf("format: %v", err)
		}
	})
	if out != "55 groups=[1, 2] uid=1000\n" {
		t.Errorf("output = %q", out)
	}
}

func TestFormatCommandSyntaxError(t *testing.T) {
	withConfig(t, &config.Config{}, "")

	err := formatCmd.RunE(formatCmd, []string{"[1, 2"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "^") {
		t.Errorf("error = %q, want a caret under the failure", err.Error())
	}
}

func TestFilterCommand(t *testing.T) {
	withConfig(t, &config.Config{}, "")

	out := captureStdout(t, func() {
		if err := filterCmd.RunE(filterCmd, []string{"uid WHERE uid > 0"}); err != nil {
			t.Fatalf("filter: %v", err)
		}
	})
	if out != "columns: uid\n[[\"uid\", \">\", 0]]\n" {
		t.Errorf("output = %q", out)
	}
}

func TestFilterCommandJSON(t *testing.T) {
	withConfig(t, &config.Config{}, "")
	jsonOutput = true

	out := captureStdout(t, func() {
		if err := filterCmd.RunE(filterCmd, []string{"* WHERE username == 'root'"}); err != nil {
			t.Fatalf("filter: %v", err)
		}
	})

	var resp struct {
		OK   bool `json:"ok"`
		Data struct {
			Filters []any `json:"filters"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	want := []any{[]any{"username", "=", "root"}}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if diff := cmp.Diff(want, resp.Data.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterCommandJSONError(t *testing.T) {
	withConfig(t, &config.Config{}, "")
	jsonOutput = true

	var err error
	out := captureStdout(t, func() {
		err = filterCmd.RunE(filterCmd, []string{"* WHERE uid >"})
	})
	if !errors.Is(err, errReported) {
		t.Fatalf("error = %v, want errReported", err)
	}
	var resp Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	if resp.OK || resp.Error == nil || resp.Error.Code != ErrSyntax {
		t.Errorf("response = %+v, want a %s error", resp, ErrSyntax)
	}
}

func TestTemplateCommand(t *testing.T) {
	withConfig(t, catalogueConfig(t), "")

	out := captureStdout(t, func() {
		if err := templateCmd.RunE(templateCmd, []string{"user.create"}); err != nil {
			t.Fatalf("template: %v", err)
		}
	})
	want := "# Object: user_create\nuser_create:\n  # String: Username\n  username:\n\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("template mismatch (-want +got):\n%s", diff)
	}

	if err := templateCmd.RunE(templateCmd, []string{"user.bogus"}); err == nil {
		t.Error("expected an error for an unknown method")
	}
}

func TestCompleteCommand(t *testing.T) {
	withConfig(t, catalogueConfig(t), "")

	out := captureStdout(t, func() {
		if err := completeCmd.RunE(completeCmd, []string{"sys"}); err != nil {
			t.Fatalf("complete: %v", err)
		}
	})
	if out != "system\n" {
		t.Errorf("output = %q, want %q", out, "system\n")
	}
}

func TestMissingCatalogue(t *testing.T) {
	withConfig(t, &config.Config{}, "/tmp/rpcsh.toml")

	err := completeCmd.RunE(completeCmd, []string{"sys"})
	if err == nil || !strings.Contains(err.Error(), "no catalogue configured") {
		t.Errorf("error = %v, want no catalogue configured", err)
	}
}
