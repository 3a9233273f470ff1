package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the YAML form of a grammar. The rule source is either inline in
// Rules or read from File, relative to the YAML file.
type File struct {
	Name  string `yaml:"name"`
	Entry string `yaml:"entry"`
	Rules string `yaml:"rules,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// ParseFile reads a grammar file without compiling it.
func ParseFile(path string) (File, error) {
	var gf File

	f, err := os.Open(path)
	if err != nil {
		return gf, err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&gf); err != nil {
		return gf, fmt.Errorf("decode %s: %w", path, err)
	}

	switch {
	case gf.Rules != "" && gf.File != "":
		return gf, fmt.Errorf("%s: rules and file are mutually exclusive", path)
	case gf.File != "":
		src, err := os.ReadFile(filepath.Join(filepath.Dir(path), gf.File))
		if err != nil {
			return gf, err
		}
		gf.Rules = string(src)
	case gf.Rules == "":
		return gf, fmt.Errorf("%s: no rules", path)
	}
	return gf, nil
}

// LoadFile reads and compiles a grammar file. Entry defaults to the first
// rule.
func LoadFile(path string, opts Options) (*Grammar, error) {
	gf, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Compile(gf.Rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	g.Name = gf.Name
	g.Entry = gf.Entry
	if g.Entry == "" {
		if names := g.Names(); len(names) > 0 {
			g.Entry = names[0]
		}
	}
	if _, ok := g.Rule(g.Entry); !ok {
		return nil, fmt.Errorf("%s: %w: entry %s", path, ErrUnresolved, g.Entry)
	}
	return g, nil
}
