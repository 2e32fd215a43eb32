// Package config handles global rpcsh configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied when a key is absent.
const (
	DefaultPrompt       = "[%h]%_n> "
	DefaultHistorySize  = 1000
	DefaultLogLevel     = "info"
	DefaultEnumCacheTTL = 5 * time.Minute
)

// Config represents the global rpcsh configuration.
type Config struct {
	// Catalogue is the path of the method catalogue JSON file.
	Catalogue string `toml:"catalogue"`

	// Responses is an optional JSON file of canned results for the dry-run
	// invoker, keyed by method name.
	Responses string `toml:"responses"`

	// Host is shown in the prompt by %h (defaults to the local hostname).
	Host string `toml:"host"`

	// Editor is the command used for the arguments editor (defaults to
	// $VISUAL, then $EDITOR, then vi).
	Editor string `toml:"editor"`

	// Prompt is the prompt template. %n is the namespace path, %_n the same
	// with a leading space, %h the host.
	Prompt string `toml:"prompt"`

	HistoryFile string `toml:"history_file"`
	HistorySize int    `toml:"history_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	LogDir   string `toml:"log_dir"`

	// CacheDir holds catalogue snapshots.
	CacheDir string `toml:"cache_dir"`

	// StrictLists rejects list literals without a space after each comma.
	StrictLists bool `toml:"strict_lists"`

	// EnumCacheTTL is how long dynamic enum values are kept, e.g. "5m".
	EnumCacheTTL string `toml:"enum_cache_ttl"`

	// UI controls optional theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for the prompt and highlights.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := config.EnumTTL(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolvePath resolves the effective config path from an optional override.
func ResolvePath(explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/rpcsh/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "rpcsh", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "rpcsh", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

const defaultConfig = `# rpcsh configuration

# Method catalogue (JSON)
# catalogue = "/path/to/catalogue.json"

# Canned results for the dry-run invoker, keyed by method name
# responses = "/path/to/responses.json"

# Host shown in the prompt by %h
# host = "nas.local"

# Editor for the arguments editor (defaults to $VISUAL, then $EDITOR)
# editor = "vim"

# Prompt template: %n namespace path, %_n same with a leading space, %h host
# prompt = "[%h]%_n> "

# Command history
# history_file = "~/.config/rpcsh/history.db"
# history_size = 1000

# Logging: debug, info, warn or error
# log_level = "info"
# log_dir = "~/.cache/rpcsh/logs"

# Catalogue snapshots
# cache_dir = "~/.cache/rpcsh"

# Require a space after every comma in list literals
# strict_lists = false

# How long dynamic enum values are cached
# enum_cache_ttl = "5m"

# Optional accent color. Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefault creates a commented default config file at path if it
// doesn't exist. It returns whether a file was written.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}

// GetEditor returns the editor command, falling back to $VISUAL, $EDITOR
// and finally vi.
func (c *Config) GetEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return "vi"
}

// GetPrompt returns the prompt template.
func (c *Config) GetPrompt() string {
	if c.Prompt != "" {
		return c.Prompt
	}
	return DefaultPrompt
}

// GetHost returns the host name shown in the prompt.
func (c *Config) GetHost() string {
	if c.Host != "" {
		return c.Host
	}
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "localhost"
}

// GetHistoryFile returns the history database path, next to the config file
// unless configured.
func (c *Config) GetHistoryFile() string {
	if c.HistoryFile != "" {
		return expandHome(c.HistoryFile)
	}
	return filepath.Join(filepath.Dir(DefaultPath()), "history.db")
}

// GetHistorySize returns how many history entries are kept.
func (c *Config) GetHistorySize() int {
	if c.HistorySize > 0 {
		return c.HistorySize
	}
	return DefaultHistorySize
}

// GetLogLevel returns the configured log level name.
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return strings.ToLower(c.LogLevel)
	}
	return DefaultLogLevel
}

// GetCacheDir returns the snapshot directory. An empty result disables
// snapshots.
func (c *Config) GetCacheDir() string {
	if c.CacheDir != "" {
		return expandHome(c.CacheDir)
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "rpcsh")
	}
	return ""
}

// GetLogDir returns the log directory.
func (c *Config) GetLogDir() string {
	if c.LogDir != "" {
		return expandHome(c.LogDir)
	}
	if dir := c.GetCacheDir(); dir != "" {
		return filepath.Join(dir, "logs")
	}
	return filepath.Join(os.TempDir(), "rpcsh-logs")
}

// GetCatalogue returns the catalogue path with ~ expanded.
func (c *Config) GetCatalogue() string {
	return expandHome(c.Catalogue)
}

// GetResponses returns the canned responses path with ~ expanded.
func (c *Config) GetResponses() string {
	return expandHome(c.Responses)
}

// EnumTTL parses the enum cache lifetime.
func (c *Config) EnumTTL() (time.Duration, error) {
	if c.EnumCacheTTL == "" {
		return DefaultEnumCacheTTL, nil
	}
	d, err := time.ParseDuration(c.EnumCacheTTL)
	if err != nil {
		return 0, fmt.Errorf("enum_cache_ttl: %w", err)
	}
	return d, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
