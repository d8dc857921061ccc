package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclFile is the top-level layout:
//
//	logfile = "check.log"
//	defaults { interpreter = "python3" }
//	rule "app" { prefix = "app/" }
type hclFile struct {
	LogFile  *string    `hcl:"logfile,optional"`
	Defaults *hclBlock  `hcl:"defaults,block"`
	Rules    []*hclRule `hcl:"rule,block"`
	Remain   hcl.Body   `hcl:",remain"`
}

type hclBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type hclRule struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

func parseHCL(filename string, data []byte) (rawConfig, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return rawConfig{}, diags
	}

	var doc hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return rawConfig{}, diags
	}

	raw := newRawConfig()
	if doc.Defaults != nil {
		values, err := hclValues(doc.Defaults.Body)
		if err != nil {
			return rawConfig{}, fmt.Errorf("defaults: %w", err)
		}
		raw.addSection(defaultSection, values)
	}
	if doc.LogFile != nil {
		raw.defaults[keyLogFile] = *doc.LogFile
	}

	for _, r := range doc.Rules {
		values, err := hclValues(r.Body)
		if err != nil {
			return rawConfig{}, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		raw.addSection(r.Name, values)
	}
	return raw, nil
}

func hclValues(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	values := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		s, err := hclString(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		values[strings.ToLower(name)] = s
	}
	return values, nil
}

// hclString flattens strings, numbers, bools and lists of them. Lists are
// joined with ';' like the other formats.
func hclString(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() {
		return "", nil
	}

	ty := val.Type()
	if ty.IsListType() || ty.IsTupleType() || ty.IsSetType() {
		parts := make([]string, 0, val.LengthInt())
		for _, el := range val.AsValueSlice() {
			s, err := hclString(el)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ";"), nil
	}

	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return str.AsString(), nil
}
