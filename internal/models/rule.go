package models

import "strings"

// Language identifies which loader script is generated for a group.
type Language string

const (
	LanguagePython Language = "python"
	LanguageNode   Language = "node"
)

// EnvironmentType identifies where a group's interpreter process runs.
type EnvironmentType string

const (
	EnvironmentLocal  EnvironmentType = "local"
	EnvironmentDocker EnvironmentType = "docker"
)

// DefaultConfigFile is the configuration file looked up when none is given.
const DefaultConfigFile = ".check_load_module"

// Rule routes files whose name starts with Prefix to an interpreter and
// module search path. Rules are matched in declaration order.
type Rule struct {
	Name        string          `json:"name"`
	Prefix      string          `json:"prefix"`
	Interpreter string          `json:"interpreter"`
	SearchPath  string          `json:"search_path"`
	Language    Language        `json:"language"`
	Environment EnvironmentType `json:"environment"`
	Image       string          `json:"image,omitempty"`

	// InheritSearchPath leaves the host's search path variable alone when
	// SearchPath is empty. Only the built-in catch-all rule sets it; a
	// configured rule without a search path runs with an empty one.
	InheritSearchPath bool `json:"inherit_search_path,omitempty"`
}

// InterpreterCandidates splits a comma-separated interpreter setting into
// trimmed, non-empty candidates. The first existing one is used.
func (r Rule) InterpreterCandidates() []string {
	var out []string
	for _, item := range strings.Split(r.Interpreter, ",") {
		if c := strings.TrimSpace(item); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// DisplayPrefix returns the prefix for log output; the catch-all rule has
// an empty one.
func (r Rule) DisplayPrefix() string {
	if r.Prefix == "" {
		return "(none)"
	}
	return r.Prefix
}

// CheckConfig is the loaded configuration for one invocation.
type CheckConfig struct {
	// Source is the file the config was read from, empty for the default.
	Source  string `json:"source,omitempty"`
	LogFile string `json:"logfile,omitempty"`
	Rules   []Rule `json:"rules"`
}
