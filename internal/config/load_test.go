package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spachava753/check-load-module/internal/config"
	"github.com/spachava753/check-load-module/internal/models"
)

func TestLoadMissingFileUsesDefault(t *testing.T) {
	cfg := config.Load(filepath.Join(t.TempDir(), models.DefaultConfigFile))

	if !reflect.DeepEqual(cfg, config.DefaultConfig()) {
		t.Errorf("expected default config, got %+v", cfg)
	}
	if len(cfg.Rules) != 1 || cfg.Rules[0].Prefix != "" {
		t.Fatalf("expected a single catch-all rule, got %+v", cfg.Rules)
	}
	if cfg.Rules[0].Language != models.LanguagePython {
		t.Errorf("expected python rule, got %q", cfg.Rules[0].Language)
	}
	if cfg.Source != "" {
		t.Errorf("expected empty source, got %q", cfg.Source)
	}
}

func TestLoadDirectoryUsesDefault(t *testing.T) {
	cfg := config.Load(t.TempDir())

	if !reflect.DeepEqual(cfg, config.DefaultConfig()) {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadMalformedUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.toml")
	if err := os.WriteFile(path, []byte("[app\nprefix = "), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := config.Load(path)
	if !reflect.DeepEqual(cfg, config.DefaultConfig()) {
		t.Errorf("expected default config, got %+v", cfg)
	}
}

func TestLoadINIFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), models.DefaultConfigFile)
	data := `[app]
prefix = app/
interpreter = python3

[rest]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := config.Load(path)

	if cfg.Source != path {
		t.Errorf("expected source %s, got %s", path, cfg.Source)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Prefix != "app/" || cfg.Rules[1].Prefix != "" {
		t.Errorf("unexpected prefixes: %q, %q", cfg.Rules[0].Prefix, cfg.Rules[1].Prefix)
	}
}

func TestLoadEmptyFileHasNoRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), models.DefaultConfigFile)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := config.Load(path)
	if len(cfg.Rules) != 0 {
		t.Errorf("expected no rules, got %+v", cfg.Rules)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want config.Format
	}{
		{path: ".check_load_module", want: config.FormatINI},
		{path: "setup.cfg", want: config.FormatINI},
		{path: "checks.INI", want: config.FormatINI},
		{path: "checks.toml", want: config.FormatTOML},
		{path: "conf/checks.yaml", want: config.FormatYAML},
		{path: "checks.yml", want: config.FormatYAML},
		{path: "checks.hcl", want: config.FormatHCL},
	}

	for _, tt := range tests {
		if got := config.DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
