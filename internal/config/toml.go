package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// parseTOML reads tables as sections. Top-level keys belong to DEFAULT.
// Table order comes from the decode metadata since maps are unordered.
func parseTOML(data []byte) (rawConfig, error) {
	var doc map[string]any
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return rawConfig{}, err
	}

	raw := newRawConfig()
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]

		switch v := doc[name].(type) {
		case map[string]any:
			values, err := tomlValues(v)
			if err != nil {
				return rawConfig{}, fmt.Errorf("section %q: %w", name, err)
			}
			raw.addSection(name, values)
		default:
			s, err := tomlString(v)
			if err != nil {
				return rawConfig{}, fmt.Errorf("key %q: %w", name, err)
			}
			raw.defaults[strings.ToLower(name)] = s
		}
	}
	return raw, nil
}

func tomlValues(table map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(table))
	for k, v := range table {
		s, err := tomlString(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		values[strings.ToLower(k)] = s
	}
	return values, nil
}

// tomlString flattens scalars and arrays of scalars. Arrays are joined with
// ';' and later normalized like any other search path.
func tomlString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, err := tomlString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ";"), nil
	case map[string]any:
		return "", fmt.Errorf("nested tables are not supported")
	default:
		return fmt.Sprint(t), nil
	}
}
