// Package config handles global configuration and the per-run settings
// snapshot.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/zotrec/config.yml.
// Every field is optional; unset fields fall back to defaults.
type GlobalConfig struct {
	ZoteroPath string `yaml:"zotero_path,omitempty" json:"zotero_path,omitempty"`
	CachePath  string `yaml:"cache_path,omitempty" json:"cache_path,omitempty"`
	S2APIKey   string `yaml:"s2_api_key,omitempty" json:"s2_api_key,omitempty"`
	Limit      int    `yaml:"limit,omitempty" json:"limit,omitempty"`
	MaxInput   int    `yaml:"max_input,omitempty" json:"max_input,omitempty"`
}

const (
	// AppDir is the directory name under XDG_CONFIG_HOME and XDG_CACHE_HOME.
	AppDir = "zotrec"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// CacheFile is the default title cache file name.
	CacheFile = "titles.json"
)

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/zotrec/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file at path.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig(path string) (*GlobalConfig, error) {
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	cfg.ZoteroPath = ExpandPath(cfg.ZoteroPath)
	cfg.CachePath = ExpandPath(cfg.CachePath)

	return &cfg, nil
}

// Save writes the global configuration to path, creating parent directories.
func (g *GlobalConfig) Save(path string) error {
	data, err := yaml.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// 0600: the file may hold an API key.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}

// Keys lists the settable global config keys in display order.
var Keys = []string{"zotero-path", "cache-path", "s2-api-key", "limit", "max-input"}

// NormalizeKey converts key formats (zotero-path, zotero_path, ZOTERO_PATH)
// to the dashed form used by Keys.
func NormalizeKey(key string) string {
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "_", "-")
}

// Get returns the value stored under key as a string.
func (g *GlobalConfig) Get(key string) (string, error) {
	switch NormalizeKey(key) {
	case "zotero-path":
		return g.ZoteroPath, nil
	case "cache-path":
		return g.CachePath, nil
	case "s2-api-key":
		return g.S2APIKey, nil
	case "limit":
		return intString(g.Limit), nil
	case "max-input":
		return intString(g.MaxInput), nil
	}
	return "", fmt.Errorf("unknown configuration key: %s", key)
}

// Set parses value and stores it under key. Paths have ~ expanded and
// numbers are range checked the same way as flags.
func (g *GlobalConfig) Set(key, value string) error {
	switch NormalizeKey(key) {
	case "zotero-path":
		g.ZoteroPath = ExpandPath(value)
	case "cache-path":
		g.CachePath = ExpandPath(value)
	case "s2-api-key":
		g.S2APIKey = value
	case "limit":
		n, err := parseBounded(key, value, MaxLimit)
		if err != nil {
			return err
		}
		g.Limit = n
	case "max-input":
		n, err := parseBounded(key, value, DefaultMaxInput)
		if err != nil {
			return err
		}
		g.MaxInput = n
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func intString(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseBounded(key, value string, upper int) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > upper {
		return 0, fmt.Errorf("%w: %s must be an integer between 1 and %d", ErrInvalid, key, upper)
	}
	return n, nil
}
