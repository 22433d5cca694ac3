package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	path := GlobalConfigPath()
	want := "/custom/config/zotrec/config.yml"
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}

	// Empty XDG_CONFIG_HOME falls back to ~/.config
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}
	path = GlobalConfigPath()
	want = filepath.Join(home, ".config", "zotrec", "config.yml")
	if path != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", path, want)
	}
}

func TestLoadGlobalConfig_NotFound(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadGlobalConfig() returned nil")
	}
	if *cfg != (GlobalConfig{}) {
		t.Errorf("LoadGlobalConfig() = %+v, want empty", *cfg)
	}
}

func TestLoadGlobalConfig_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `zotero_path: /data/zotero.sqlite
cache_path: ~/titles.json
s2_api_key: secret
limit: 40
max_input: 50
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobalConfig(path)
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}

	if cfg.ZoteroPath != "/data/zotero.sqlite" {
		t.Errorf("ZoteroPath = %q", cfg.ZoteroPath)
	}
	if strings.HasPrefix(cfg.CachePath, "~") {
		t.Errorf("CachePath = %q, want ~ expanded", cfg.CachePath)
	}
	if cfg.S2APIKey != "secret" {
		t.Errorf("S2APIKey = %q", cfg.S2APIKey)
	}
	if cfg.Limit != 40 || cfg.MaxInput != 50 {
		t.Errorf("Limit, MaxInput = %d, %d, want 40, 50", cfg.Limit, cfg.MaxInput)
	}
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("limit: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadGlobalConfig(path); err == nil {
		t.Error("LoadGlobalConfig() should fail on invalid YAML")
	}
}

func TestGlobalConfig_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	orig := GlobalConfig{ZoteroPath: "/z.sqlite", Limit: 10}

	if err := orig.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadGlobalConfig(path)
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if *loaded != orig {
		t.Errorf("loaded = %+v, want %+v", *loaded, orig)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~", home},
		{"~/Zotero/zotero.sqlite", filepath.Join(home, "Zotero", "zotero.sqlite")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGlobalConfig_GetSet(t *testing.T) {
	var g GlobalConfig

	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{"zotero-path", "/lib/zotero.sqlite", "/lib/zotero.sqlite", false},
		{"CACHE_PATH", "/c/titles.json", "/c/titles.json", false},
		{"s2_api_key", "k", "k", false},
		{"limit", "50", "50", false},
		{"limit", "0", "", true},
		{"limit", "501", "", true},
		{"max-input", "100", "100", false},
		{"max-input", "101", "", true},
		{"max-input", "many", "", true},
		{"pdf-root", "/x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := g.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := g.Get(tt.key)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	for _, k := range []string{"zotero-path", "zotero_path", "ZOTERO_PATH"} {
		if got := NormalizeKey(k); got != "zotero-path" {
			t.Errorf("NormalizeKey(%q) = %q", k, got)
		}
	}
}
