package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/rpcsh/internal/atomicfile"
)

type persistedConfig struct {
	Catalogue    *string              `toml:"catalogue,omitempty"`
	Responses    *string              `toml:"responses,omitempty"`
	Host         *string              `toml:"host,omitempty"`
	Editor       *string              `toml:"editor,omitempty"`
	Prompt       *string              `toml:"prompt,omitempty"`
	HistoryFile  *string              `toml:"history_file,omitempty"`
	HistorySize  *int                 `toml:"history_size,omitempty"`
	LogLevel     *string              `toml:"log_level,omitempty"`
	LogDir       *string              `toml:"log_dir,omitempty"`
	CacheDir     *string              `toml:"cache_dir,omitempty"`
	StrictLists  *bool                `toml:"strict_lists,omitempty"`
	EnumCacheTTL *string              `toml:"enum_cache_ttl,omitempty"`
	UI           *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

// nonEmptyPtr keeps surrounding spaces, which are significant in prompts.
func nonEmptyPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// Keys lists the keys accepted by Set.
var Keys = []string{
	"catalogue", "responses", "host", "editor", "prompt",
	"history_file", "history_size", "log_level", "log_dir", "cache_dir",
	"strict_lists", "enum_cache_ttl", "ui.accent",
}

// Set assigns one key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "catalogue":
		c.Catalogue = value
	case "responses":
		c.Responses = value
	case "host":
		c.Host = value
	case "editor":
		c.Editor = value
	case "prompt":
		c.Prompt = value
	case "history_file":
		c.HistoryFile = value
	case "history_size":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("history_size must be a non-negative integer")
		}
		c.HistorySize = n
	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("log_level must be one of debug, info, warn, error")
		}
	case "log_dir":
		c.LogDir = value
	case "cache_dir":
		c.CacheDir = value
	case "strict_lists":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("strict_lists must be true or false")
		}
		c.StrictLists = b
	case "enum_cache_ttl":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("enum_cache_ttl: %w", err)
		}
		c.EnumCacheTTL = value
	case "ui.accent":
		c.UI.Accent = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// SaveTo writes the config to path atomically. Unset keys are left out.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Catalogue:    nonEmptyPtr(cfg.Catalogue),
		Responses:    nonEmptyPtr(cfg.Responses),
		Host:         nonEmptyPtr(cfg.Host),
		Editor:       nonEmptyPtr(cfg.Editor),
		Prompt:       nonEmptyPtr(cfg.Prompt),
		HistoryFile:  nonEmptyPtr(cfg.HistoryFile),
		LogLevel:     nonEmptyPtr(cfg.LogLevel),
		LogDir:       nonEmptyPtr(cfg.LogDir),
		CacheDir:     nonEmptyPtr(cfg.CacheDir),
		EnumCacheTTL: nonEmptyPtr(cfg.EnumCacheTTL),
	}
	if cfg.HistorySize > 0 {
		out.HistorySize = &cfg.HistorySize
	}
	if cfg.StrictLists {
		out.StrictLists = &cfg.StrictLists
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
