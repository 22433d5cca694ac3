package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cachehome")

	d := Defaults()

	if d.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", d.Limit, DefaultLimit)
	}
	if d.MaxInput != 100 {
		t.Errorf("MaxInput = %d, want 100", d.MaxInput)
	}
	if d.Output != OutputJSON {
		t.Errorf("Output = %q, want json", d.Output)
	}
	if d.CachePath != "/tmp/cachehome/zotrec/titles.json" {
		t.Errorf("CachePath = %q", d.CachePath)
	}
	if !strings.HasSuffix(d.ZoteroPath, filepath.Join("Zotero", "zotero.sqlite")) {
		t.Errorf("ZoteroPath = %q", d.ZoteroPath)
	}
	if d.ForceUpdate {
		t.Error("ForceUpdate should default to false")
	}
}

func TestBuild_Precedence(t *testing.T) {
	global := &GlobalConfig{
		ZoteroPath: "/global/zotero.sqlite",
		CachePath:  "/global/titles.json",
		S2APIKey:   "global-key",
		Limit:      30,
		MaxInput:   60,
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags Flags
		want  func(Run) string // returns a failure message or ""
	}{
		{
			name: "global over default",
			want: func(r Run) string {
				if r.ZoteroPath != "/global/zotero.sqlite" || r.Limit != 30 || r.APIKey != "global-key" {
					return "global values not applied"
				}
				return ""
			},
		},
		{
			name: "env over global",
			env:  map[string]string{EnvAPIKey: "env-key", EnvLimit: "25", EnvCachePath: "/env/titles.json"},
			want: func(r Run) string {
				if r.APIKey != "env-key" || r.Limit != 25 || r.CachePath != "/env/titles.json" {
					return "env values not applied"
				}
				if r.MaxInput != 60 {
					return "unset env should not clear global"
				}
				return ""
			},
		},
		{
			name: "flag over env",
			env:  map[string]string{EnvAPIKey: "env-key", EnvMaxInput: "70"},
			flags: Flags{
				APIKey:   strPtr("flag-key"),
				MaxInput: intPtr(5),
				Limit:    intPtr(7),
			},
			want: func(r Run) string {
				if r.APIKey != "flag-key" || r.MaxInput != 5 || r.Limit != 7 {
					return "flag values not applied"
				}
				return ""
			},
		},
		{
			name:  "per-run switches",
			flags: Flags{ForceUpdate: true, Collection: "Thesis", IncludeSubcollections: true, Output: OutputHuman, Verbose: true},
			want: func(r Run) string {
				if !r.ForceUpdate || r.Collection != "Thesis" || !r.IncludeSubcollections || r.Output != OutputHuman || !r.Verbose {
					return "switches not copied"
				}
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Build(global, envMap(tt.env), tt.flags)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if msg := tt.want(r); msg != "" {
				t.Errorf("%s: got %+v", msg, r)
			}
		})
	}
}

func TestBuild_NilLayers(t *testing.T) {
	r, err := Build(nil, nil, Flags{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if r.Limit != DefaultLimit || r.MaxInput != DefaultMaxInput {
		t.Errorf("Build() = %+v, want defaults", r)
	}
}

func TestBuild_BadEnvInteger(t *testing.T) {
	_, err := Build(nil, envMap(map[string]string{EnvLimit: "lots"}), Flags{})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Build() error = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Run{
		ZoteroPath: "/z.sqlite",
		CachePath:  "/c.json",
		Limit:      20,
		MaxInput:   100,
		Output:     OutputJSON,
	}

	tests := []struct {
		name    string
		mutate  func(*Run)
		wantErr bool
	}{
		{"valid", func(r *Run) {}, false},
		{"limit zero", func(r *Run) { r.Limit = 0 }, true},
		{"limit at max", func(r *Run) { r.Limit = MaxLimit }, false},
		{"limit above max", func(r *Run) { r.Limit = MaxLimit + 1 }, true},
		{"max input zero", func(r *Run) { r.MaxInput = 0 }, true},
		{"max input above provider cap", func(r *Run) { r.MaxInput = 101 }, true},
		{"max input one", func(r *Run) { r.MaxInput = 1 }, false},
		{"empty zotero path", func(r *Run) { r.ZoteroPath = "" }, true},
		{"empty cache path", func(r *Run) { r.CachePath = "" }, true},
		{"unknown output", func(r *Run) { r.Output = "xml" }, true},
		{"browse output", func(r *Run) { r.Output = OutputBrowse }, false},
		{"subcollections without collection", func(r *Run) { r.IncludeSubcollections = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalid", err)
			}
		})
	}
}

func TestHelpfulConfigMessage(t *testing.T) {
	msg := HelpfulConfigMessage("/nowhere/zotero.sqlite")
	if !strings.Contains(msg, "/nowhere/zotero.sqlite") {
		t.Error("message should name the missing path")
	}
	if !strings.Contains(msg, "zotero_path") {
		t.Error("message should mention the config key")
	}
}
