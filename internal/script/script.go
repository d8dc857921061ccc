// Package script provides the standalone programs that load every file of a
// group in a fresh interpreter. Filenames reach the program as command-line
// arguments, so the bytes of a name are passed through unchanged.
package script

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spachava753/check-load-module/internal/models"
)

// Generator provides the loader program for one language.
type Generator struct {
	Language models.Language
	// Ext is the file extension of the written script, including the dot.
	Ext string
	// SearchPathEnv names the variable the interpreter reads its module
	// search path from.
	SearchPathEnv string

	source string
	// utf8Names is set when the interpreter decodes argv as UTF-8 and
	// cannot open a file whose name is not valid UTF-8.
	utf8Names bool
}

// Progress lines are written as raw bytes so undecodable names print as
// given instead of raising on a strict stdout encoding.
const pythonSource = `import importlib.util
import os
import sys


def dynamic_load(path):
    spec = importlib.util.spec_from_file_location("check_load", path)
    if spec is None or spec.loader is None:
        raise ImportError("cannot load " + path)
    module = importlib.util.module_from_spec(spec)
    spec.loader.exec_module(module)
    return module


for f in sys.argv[1:]:
    sys.stdout.flush()
    sys.stdout.buffer.write(b"Checking " + os.fsencode(f) + b"\n")
    sys.stdout.buffer.flush()
    dynamic_load(f)
`

const nodeSource = `"use strict";
const path = require("path");

for (const f of process.argv.slice(2)) {
  console.log("Checking " + f);
  require(path.resolve(f));
}
`

var generators = map[models.Language]*Generator{
	models.LanguagePython: {
		Language:      models.LanguagePython,
		Ext:           ".py",
		SearchPathEnv: "PYTHONPATH",
		source:        pythonSource,
	},
	models.LanguageNode: {
		Language:      models.LanguageNode,
		Ext:           ".js",
		SearchPathEnv: "NODE_PATH",
		source:        nodeSource,
		utf8Names:     true,
	},
}

// Lookup returns the generator for lang.
func Lookup(lang models.Language) (*Generator, error) {
	g, ok := generators[lang]
	if !ok {
		return nil, fmt.Errorf("%w: language %q", models.ErrUnsupported, lang)
	}
	return g, nil
}

// Render writes the loader program to w.
func (g *Generator) Render(w io.Writer) error {
	_, err := io.WriteString(w, g.source)
	return err
}

// Command returns the argv that runs the loader at scriptPath over
// filenames. Names the interpreter cannot open are rejected up front.
func (g *Generator) Command(interpreter, scriptPath string, filenames []string) ([]string, error) {
	if g.utf8Names {
		for _, f := range filenames {
			if !utf8.ValidString(f) {
				return nil, fmt.Errorf("%w: %s cannot load %q: name is not valid UTF-8", models.ErrUnsupported, g.Language, f)
			}
		}
	}

	argv := make([]string, 0, len(filenames)+2)
	argv = append(argv, interpreter, scriptPath)
	return append(argv, filenames...), nil
}
