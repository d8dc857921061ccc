package config

import (
	"strings"

	"github.com/spachava753/check-load-module/internal/models"
)

// defaultSection holds the logfile and fallback values for every rule.
const defaultSection = "DEFAULT"

// Recognized keys. Keys are matched case-insensitively.
const (
	keyLogFile     = "logfile"
	keyPrefix      = "prefix"
	keyInterpreter = "interpreter"
	keyLanguage    = "language"
	keyEnvironment = "environment"
	keyImage       = "image"
)

// searchPathKeys are tried in order; pythonpath matches the historical name.
var searchPathKeys = []string{"search_path", "pythonpath", "node_path"}

// rawSection is one named section with lower-cased keys.
type rawSection struct {
	name   string
	values map[string]string
}

// rawConfig is what every format decoder produces, sections in file order.
type rawConfig struct {
	defaults map[string]string
	sections []rawSection
}

func newRawConfig() rawConfig {
	return rawConfig{defaults: make(map[string]string)}
}

// addSection merges the section named exactly DEFAULT into the fallback
// values; any other spelling is an ordinary rule.
func (rc *rawConfig) addSection(name string, values map[string]string) {
	if name == defaultSection {
		for k, v := range values {
			rc.defaults[k] = v
		}
		return
	}
	rc.sections = append(rc.sections, rawSection{name: name, values: values})
}

// lookup returns the section value for key, falling back to DEFAULT.
func (rc rawConfig) lookup(sec rawSection, key string) (string, bool) {
	if v, ok := sec.values[key]; ok {
		return v, true
	}
	v, ok := rc.defaults[key]
	return v, ok
}

func (rc rawConfig) build(goos string) models.CheckConfig {
	cfg := models.CheckConfig{
		LogFile: strings.TrimSpace(rc.defaults[keyLogFile]),
		Rules:   make([]models.Rule, 0, len(rc.sections)),
	}

	for _, sec := range rc.sections {
		rule := models.Rule{
			Name:        sec.name,
			Language:    models.LanguagePython,
			Environment: models.EnvironmentLocal,
		}

		if v, ok := rc.lookup(sec, keyPrefix); ok {
			rule.Prefix = v
		}
		if v, ok := rc.lookup(sec, keyLanguage); ok && strings.TrimSpace(v) != "" {
			rule.Language = models.Language(strings.ToLower(strings.TrimSpace(v)))
		}
		if v, ok := rc.lookup(sec, keyEnvironment); ok && strings.TrimSpace(v) != "" {
			rule.Environment = models.EnvironmentType(strings.ToLower(strings.TrimSpace(v)))
		}
		if v, ok := rc.lookup(sec, keyImage); ok {
			rule.Image = strings.TrimSpace(v)
		}

		rule.Interpreter = DefaultInterpreter(rule.Language, goos)
		if v, ok := rc.lookup(sec, keyInterpreter); ok && strings.TrimSpace(v) != "" {
			rule.Interpreter = strings.TrimSpace(v)
		}

		for _, key := range searchPathKeys {
			if v, ok := rc.lookup(sec, key); ok {
				rule.SearchPath = joinLines(v)
				break
			}
		}

		// Containers are Linux regardless of the host.
		pathOS := goos
		if rule.Environment == models.EnvironmentDocker {
			pathOS = "linux"
		}
		rule.SearchPath = NormalizeSearchPath(strings.TrimSpace(rule.SearchPath), pathOS)

		cfg.Rules = append(cfg.Rules, rule)
	}

	return cfg
}

// joinLines folds a value continued over several lines into one list. A
// line break counts as a separator unless one already ends the line or
// starts the next.
func joinLines(v string) string {
	var b strings.Builder
	for _, line := range strings.Split(v, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if b.Len() > 0 && !strings.ContainsAny(line[:1], ";:") {
			if prev := b.String(); !strings.ContainsAny(prev[len(prev)-1:], ";:") {
				b.WriteByte(';')
			}
		}
		b.WriteString(line)
	}
	return b.String()
}

// NormalizeSearchPath rewrites list separators for goos: ';' becomes ':'
// on Unix-like systems, and ':' becomes ';' on Windows except for the
// colon of a drive letter.
func NormalizeSearchPath(s, goos string) string {
	if goos != "windows" {
		return strings.ReplaceAll(s, ";", ":")
	}

	var b strings.Builder
	b.Grow(len(s))
	segStart := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ';':
			b.WriteByte(';')
			segStart = i + 1
		case ':':
			if isDriveColon(s, segStart, i) {
				b.WriteByte(':')
				continue
			}
			b.WriteByte(';')
			segStart = i + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// isDriveColon reports whether s[i] is the colon in "C:\" or "C:/" at the
// start of a list segment.
func isDriveColon(s string, segStart, i int) bool {
	if i != segStart+1 || !isLetter(s[segStart]) {
		return false
	}
	return i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '/')
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
