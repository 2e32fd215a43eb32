package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigGetEditor(t *testing.T) {
	t.Run("configured editor", func(t *testing.T) {
		cfg := &Config{Editor: "vim"}
		if cfg.GetEditor() != "vim" {
			t.Errorf("expected 'vim', got %q", cfg.GetEditor())
		}
	})

	t.Run("prefers VISUAL over EDITOR", func(t *testing.T) {
		t.Setenv("VISUAL", "code --wait")
		t.Setenv("EDITOR", "nano")
		cfg := &Config{}
		if cfg.GetEditor() != "code --wait" {
			t.Errorf("expected 'code --wait', got %q", cfg.GetEditor())
		}
	})

	t.Run("falls back to EDITOR env", func(t *testing.T) {
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", "nano")
		cfg := &Config{}
		if cfg.GetEditor() != "nano" {
			t.Errorf("expected 'nano', got %q", cfg.GetEditor())
		}
	})

	t.Run("vi when nothing is configured", func(t *testing.T) {
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", "")
		cfg := &Config{}
		if cfg.GetEditor() != "vi" {
			t.Errorf("expected 'vi', got %q", cfg.GetEditor())
		}
	})
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetPrompt(); got != DefaultPrompt {
		t.Errorf("GetPrompt() = %q, want %q", got, DefaultPrompt)
	}
	if got := cfg.GetHistorySize(); got != DefaultHistorySize {
		t.Errorf("GetHistorySize() = %d, want %d", got, DefaultHistorySize)
	}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
	if got, err := cfg.EnumTTL(); err != nil || got != DefaultEnumCacheTTL {
		t.Errorf("EnumTTL() = %v, %v; want %v", got, err, DefaultEnumCacheTTL)
	}
	if got := (&Config{Host: "nas"}).GetHost(); got != "nas" {
		t.Errorf("GetHost() = %q, want nas", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := &Config{CacheDir: "~/cache", HistoryFile: "/abs/history.db"}
	if got, want := cfg.GetCacheDir(), filepath.Join(home, "cache"); got != want {
		t.Errorf("GetCacheDir() = %q, want %q", got, want)
	}
	if got := cfg.GetHistoryFile(); got != "/abs/history.db" {
		t.Errorf("GetHistoryFile() = %q", got)
	}
	if got, want := cfg.GetLogDir(), filepath.Join(home, "cache", "logs"); got != want {
		t.Errorf("GetLogDir() = %q, want %q", got, want)
	}
}

func TestLoadFrom(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	// In TOML, keys after a [section] belong to that section.
	content := `catalogue = "/srv/catalogue.json"
editor = "code"
prompt = "%h%_n$ "
history_size = 200
strict_lists = true
enum_cache_ttl = "90s"

[ui]
accent = "39"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Catalogue != "/srv/catalogue.json" {
		t.Errorf("expected catalogue '/srv/catalogue.json', got %q", cfg.Catalogue)
	}
	if cfg.Editor != "code" {
		t.Errorf("expected editor 'code', got %q", cfg.Editor)
	}
	if cfg.GetPrompt() != "%h%_n$ " {
		t.Errorf("expected prompt '%%h%%_n$ ', got %q", cfg.GetPrompt())
	}
	if cfg.GetHistorySize() != 200 {
		t.Errorf("expected history_size 200, got %d", cfg.GetHistorySize())
	}
	if !cfg.StrictLists {
		t.Error("expected strict_lists")
	}
	if ttl, _ := cfg.EnumTTL(); ttl != 90*time.Second {
		t.Errorf("expected enum_cache_ttl 90s, got %v", ttl)
	}
	if cfg.UI.Accent != "39" {
		t.Errorf("expected ui.accent '39', got %q", cfg.UI.Accent)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid toml", content: `this is not valid toml {{{{`},
		{name: "invalid duration", content: `enum_cache_ttl = "later"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}
			if _, err := LoadFrom(configPath); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rpcsh", "config.toml")

	created, err := CreateDefault(path)
	if err != nil || !created {
		t.Fatalf("CreateDefault() = %v, %v; want true, nil", created, err)
	}

	// The template is all comments, so it loads as an empty config.
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Catalogue != "" {
		t.Errorf("expected empty catalogue, got %q", cfg.Catalogue)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "# prompt = \"[%h]%_n> \"") {
		t.Errorf("template does not document the prompt:\n%s", data)
	}

	created, err = CreateDefault(path)
	if err != nil || created {
		t.Fatalf("second CreateDefault() = %v, %v; want false, nil", created, err)
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/tmp/x.toml"); got != "/tmp/x.toml" {
		t.Errorf("ResolvePath = %q", got)
	}
	if got := ResolvePath("  "); filepath.Base(got) != "config.toml" {
		t.Errorf("ResolvePath default = %q", got)
	}
}
