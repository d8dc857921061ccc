package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseYAML reads a top-level mapping of sections. Scalar top-level values
// belong to DEFAULT. The node tree keeps the declared order.
func parseYAML(data []byte) (rawConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rawConfig{}, err
	}

	raw := newRawConfig()
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return raw, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return rawConfig{}, fmt.Errorf("line %d: top level must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		switch v.Kind {
		case yaml.MappingNode:
			values, err := yamlValues(v)
			if err != nil {
				return rawConfig{}, fmt.Errorf("section %q: %w", k.Value, err)
			}
			raw.addSection(k.Value, values)
		case yaml.ScalarNode:
			raw.defaults[strings.ToLower(k.Value)] = v.Value
		default:
			return rawConfig{}, fmt.Errorf("line %d: %q must be a mapping or a scalar", v.Line, k.Value)
		}
	}
	return raw, nil
}

func yamlValues(n *yaml.Node) (map[string]string, error) {
	values := make(map[string]string, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch v.Kind {
		case yaml.ScalarNode:
			values[strings.ToLower(k.Value)] = v.Value
		case yaml.SequenceNode:
			var items []string
			if err := v.Decode(&items); err != nil {
				return nil, fmt.Errorf("key %q: %w", k.Value, err)
			}
			values[strings.ToLower(k.Value)] = strings.Join(items, ";")
		default:
			return nil, fmt.Errorf("line %d: unsupported value for %q", v.Line, k.Value)
		}
	}
	return values, nil
}
