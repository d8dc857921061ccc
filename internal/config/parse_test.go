package config

import (
	"reflect"
	"testing"

	"github.com/spachava753/check-load-module/internal/models"
)

func TestParseINI(t *testing.T) {
	data := `[DEFAULT]
logfile = check.log
interpreter = /opt/venv/bin/python, python3

[app]
prefix = app/
PYTHONPATH = .;common

[common]
prefix = common/
interpreter = python3.12
pythonpath = .

[everything]
`

	cfg, err := parse(".check_load_module", []byte(data), "linux")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.LogFile != "check.log" {
		t.Errorf("expected logfile check.log, got %q", cfg.LogFile)
	}
	if cfg.Source != ".check_load_module" {
		t.Errorf("expected source .check_load_module, got %q", cfg.Source)
	}

	want := []models.Rule{
		{
			Name:        "app",
			Prefix:      "app/",
			Interpreter: "/opt/venv/bin/python, python3",
			SearchPath:  ".:common",
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,
		},
		{
			Name:        "common",
			Prefix:      "common/",
			Interpreter: "python3.12",
			SearchPath:  ".",
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,
		},
		{
			Name:        "everything",
			Interpreter: "/opt/venv/bin/python, python3",
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,
		},
	}
	if !reflect.DeepEqual(cfg.Rules, want) {
		t.Errorf("rules mismatch\n got: %+v\nwant: %+v", cfg.Rules, want)
	}
}

func TestParseINIWindowsSearchPath(t *testing.T) {
	data := `[app]
prefix = app/
pythonpath = C:\src:lib
`

	cfg, err := parse("checks.ini", []byte(data), "windows")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cfg.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].SearchPath != `C:\src;lib` {
		t.Errorf("expected search path C:\\src;lib, got %q", cfg.Rules[0].SearchPath)
	}
	if cfg.Rules[0].Interpreter != "python" {
		t.Errorf("expected windows default interpreter python, got %q", cfg.Rules[0].Interpreter)
	}
}

func TestParseINIContinuationLines(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "separator before break",
			data: "[app]\nprefix = app/\nPYTHONPATH = src;\n  lib\n",
			want: "src:lib",
		},
		{
			name: "break is a separator",
			data: "[app]\nprefix = app/\npythonpath = src\n    lib\n    vendor\n",
			want: "src:lib:vendor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parse(".check_load_module", []byte(tt.data), "linux")
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if len(cfg.Rules) != 1 {
				t.Fatalf("expected 1 rule, got %d", len(cfg.Rules))
			}
			if cfg.Rules[0].Prefix != "app/" {
				t.Errorf("expected prefix app/, got %q", cfg.Rules[0].Prefix)
			}
			if cfg.Rules[0].SearchPath != tt.want {
				t.Errorf("expected search path %q, got %q", tt.want, cfg.Rules[0].SearchPath)
			}
		})
	}
}

func TestParseINILowercaseDefaultIsARule(t *testing.T) {
	data := "[default]\nprefix = x/\n\n[app]\nprefix = app/\n"

	cfg, err := parse(".check_load_module", []byte(data), "linux")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %+v", cfg.Rules)
	}
	if cfg.Rules[0].Name != "default" || cfg.Rules[0].Prefix != "x/" {
		t.Errorf("unexpected first rule: %+v", cfg.Rules[0])
	}
	if cfg.Rules[1].Prefix != "app/" {
		t.Errorf("expected app rule prefix app/, got %q", cfg.Rules[1].Prefix)
	}
}

func TestParseTOMLKeepsSectionOrder(t *testing.T) {
	data := `logfile = "lint.log"

[zeta]
prefix = "z/"
search_path = ["src", "vendor"]

[alpha]
prefix = "a/"
language = "node"

[DEFAULT]
interpreter = "python3.11"
`

	cfg, err := parse("checks.toml", []byte(data), "linux")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.LogFile != "lint.log" {
		t.Errorf("expected logfile lint.log, got %q", cfg.LogFile)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Name != "zeta" || cfg.Rules[1].Name != "alpha" {
		t.Errorf("expected order [zeta alpha], got [%s %s]", cfg.Rules[0].Name, cfg.Rules[1].Name)
	}
	if cfg.Rules[0].SearchPath != "src:vendor" {
		t.Errorf("expected search path src:vendor, got %q", cfg.Rules[0].SearchPath)
	}
	if cfg.Rules[0].Interpreter != "python3.11" {
		t.Errorf("expected DEFAULT interpreter python3.11, got %q", cfg.Rules[0].Interpreter)
	}
	if cfg.Rules[1].Language != models.LanguageNode {
		t.Errorf("expected node language, got %q", cfg.Rules[1].Language)
	}
	// An explicit DEFAULT interpreter still wins over the language default.
	if cfg.Rules[1].Interpreter != "python3.11" {
		t.Errorf("expected interpreter python3.11, got %q", cfg.Rules[1].Interpreter)
	}
}

func TestParseYAML(t *testing.T) {
	data := `DEFAULT:
  logfile: hooks.log
web:
  prefix: web/
  language: node
  NODE_PATH: web/lib
service:
  prefix: svc/
  environment: docker
  image: python:3.12-slim
  search_path:
    - svc
    - shared
`

	cfg, err := parse("checks.yaml", []byte(data), "windows")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.LogFile != "hooks.log" {
		t.Errorf("expected logfile hooks.log, got %q", cfg.LogFile)
	}
	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}

	web := cfg.Rules[0]
	if web.Name != "web" || web.Interpreter != "node" || web.SearchPath != "web/lib" {
		t.Errorf("unexpected web rule: %+v", web)
	}

	svc := cfg.Rules[1]
	if svc.Environment != models.EnvironmentDocker {
		t.Errorf("expected docker environment, got %q", svc.Environment)
	}
	if svc.Image != "python:3.12-slim" {
		t.Errorf("expected image python:3.12-slim, got %q", svc.Image)
	}
	// Docker rules use Linux separators even on a Windows host.
	if svc.SearchPath != "svc:shared" {
		t.Errorf("expected search path svc:shared, got %q", svc.SearchPath)
	}
	if svc.Interpreter != "python" {
		t.Errorf("expected interpreter python, got %q", svc.Interpreter)
	}
}

func TestParseYAMLRejectsSequenceRoot(t *testing.T) {
	if _, err := parse("checks.yml", []byte("- a\n- b\n"), "linux"); err == nil {
		t.Fatal("expected error for sequence root")
	}
}

func TestParseHCL(t *testing.T) {
	data := `logfile = "hcl.log"

defaults {
  interpreter = "python3.10"
}

rule "tests" {
  prefix      = "tests/"
  search_path = ["tests", "src"]
}

rule "rest" {
  prefix = ""
}
`

	cfg, err := parse("checks.hcl", []byte(data), "linux")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.LogFile != "hcl.log" {
		t.Errorf("expected logfile hcl.log, got %q", cfg.LogFile)
	}
	want := []models.Rule{
		{
			Name:        "tests",
			Prefix:      "tests/",
			Interpreter: "python3.10",
			SearchPath:  "tests:src",
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,
		},
		{
			Name:        "rest",
			Interpreter: "python3.10",
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,
		},
	}
	if !reflect.DeepEqual(cfg.Rules, want) {
		t.Errorf("rules mismatch\n got: %+v\nwant: %+v", cfg.Rules, want)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "broken.toml", data: "[app\nprefix = 1"},
		{name: "broken.yaml", data: "a: [b"},
		{name: "broken.hcl", data: "rule \"x\" {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse(tt.name, []byte(tt.data), "linux"); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestNormalizeSearchPath(t *testing.T) {
	tests := []struct {
		in   string
		goos string
		want string
	}{
		{in: "", goos: "linux", want: ""},
		{in: "a;b:c", goos: "linux", want: "a:b:c"},
		{in: "a;b:c", goos: "darwin", want: "a:b:c"},
		{in: "a:b", goos: "windows", want: "a;b"},
		{in: `C:\a;D:/b:c`, goos: "windows", want: `C:\a;D:/b;c`},
		{in: `lib:C:\a`, goos: "windows", want: `lib;C:\a`},
		{in: "x:", goos: "windows", want: "x;"},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.in, func(t *testing.T) {
			if got := NormalizeSearchPath(tt.in, tt.goos); got != tt.want {
				t.Errorf("NormalizeSearchPath(%q, %q) = %q, want %q", tt.in, tt.goos, got, tt.want)
			}
		})
	}
}
