// Package config loads the prefix rules that route files to interpreters.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spachava753/check-load-module/internal/models"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// DetectFormat picks the syntax from the file extension. Files without a
// known extension (including the default .check_load_module) are INI.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	default:
		return FormatINI
	}
}

// DefaultConfig returns the config used when no file is available: a single
// catch-all python rule running on the host.
func DefaultConfig() models.CheckConfig {
	return defaultConfig(runtime.GOOS)
}

func defaultConfig(goos string) models.CheckConfig {
	return models.CheckConfig{
		Rules: []models.Rule{{
			Name:        "default",
			Interpreter: DefaultInterpreter(models.LanguagePython, goos),
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,

			InheritSearchPath: true,
		}},
	}
}

// DefaultInterpreter returns the interpreter used when a rule names none.
func DefaultInterpreter(lang models.Language, goos string) string {
	switch lang {
	case models.LanguageNode:
		return "node"
	case models.LanguagePython:
		if goos == "windows" {
			return "python"
		}
		return "python3"
	default:
		return ""
	}
}

// Load reads the config file at path. A missing, unreadable or malformed
// file is not an error: the default config is returned instead.
func Load(path string) models.CheckConfig {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		slog.Info("no config file found, using default", "path", path)
		return DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("reading config failed, using default", "path", path, "error", err)
		return DefaultConfig()
	}

	cfg, err := Parse(path, data)
	if err != nil {
		slog.Warn("parsing config failed, using default", "path", path, "error", err)
		return DefaultConfig()
	}

	slog.Debug("config loaded", "path", path, "rules", len(cfg.Rules), "logfile", cfg.LogFile)
	return cfg
}

// Parse decodes config data. The format is chosen from name's extension.
func Parse(name string, data []byte) (models.CheckConfig, error) {
	return parse(name, data, runtime.GOOS)
}

func parse(name string, data []byte, goos string) (models.CheckConfig, error) {
	var (
		raw rawConfig
		err error
	)

	switch DetectFormat(name) {
	case FormatTOML:
		raw, err = parseTOML(data)
	case FormatYAML:
		raw, err = parseYAML(data)
	case FormatHCL:
		raw, err = parseHCL(name, data)
	default:
		raw, err = parseINI(data)
	}
	if err != nil {
		return models.CheckConfig{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	cfg := raw.build(goos)
	cfg.Source = name
	return cfg, nil
}
