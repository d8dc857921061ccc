package config

import (
	"strings"

	"gopkg.in/ini.v1"
)

// parseINI reads the configparser-style format. Inline comments are not
// recognized so that ';' can appear in search paths, and indented lines
// continue the previous value.
func parseINI(data []byte) (rawConfig, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:            true,
		IgnoreInlineComment:        true,
		AllowPythonMultilineValues: true,
	}, data)
	if err != nil {
		return rawConfig{}, err
	}

	raw := newRawConfig()
	for _, sec := range f.Sections() {
		values := make(map[string]string, len(sec.Keys()))
		for _, key := range sec.Keys() {
			values[strings.ToLower(key.Name())] = key.Value()
		}
		raw.addSection(sec.Name(), values)
	}
	return raw, nil
}
