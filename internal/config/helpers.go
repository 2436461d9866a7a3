package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/wrenworks/wren/internal/render"
	"gopkg.in/yaml.v3"
)

// Helpers is a generator's optional co-located helpers unit: a declarative
// list of named text transforms registered on the render session.
type Helpers struct {
	Specs []HelperSpec `yaml:"helpers"`
}

// HelperSpec describes one named transform. Transforms apply in order:
// replacements, prefix/suffix, then the case operation.
type HelperSpec struct {
	Name    string        `yaml:"name"`
	Replace []ReplacePair `yaml:"replace"`
	Prefix  string        `yaml:"prefix"`
	Suffix  string        `yaml:"suffix"`
	Case    string        `yaml:"case"`
}

// ReplacePair is a literal substring replacement.
type ReplacePair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoadHelpers parses a helpers.yml file.
func LoadHelpers(path string) (*Helpers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading helpers file %s: %w", path, err)
	}

	var h Helpers
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing helpers file %s: %w", path, err)
	}

	for _, spec := range h.Specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("helpers file %s: helper with no name", path)
		}
		switch spec.Case {
		case "", "upper", "lower", "camel", "pascal", "snake":
		default:
			return nil, fmt.Errorf("helpers file %s: helper %q has unknown case op %q", path, spec.Name, spec.Case)
		}
	}

	return &h, nil
}

// Register installs every helper on the renderer.
func (h *Helpers) Register(r *render.Renderer) error {
	for _, spec := range h.Specs {
		if err := r.Register(spec.Name, spec.fn()); err != nil {
			return fmt.Errorf("registering helper %q: %w", spec.Name, err)
		}
	}
	return nil
}

// fn compiles the spec into a text transform.
func (spec HelperSpec) fn() func(string) string {
	replace := spec.Replace
	prefix, suffix := spec.Prefix, spec.Suffix
	caseOp := spec.Case

	return func(s string) string {
		for _, p := range replace {
			s = strings.ReplaceAll(s, p.From, p.To)
		}
		s = prefix + s + suffix

		switch caseOp {
		case "upper":
			s = strings.ToUpper(s)
		case "lower":
			s = strings.ToLower(s)
		case "camel":
			s = render.CamelCase(s)
		case "pascal":
			s = render.PascalCase(s)
		case "snake":
			s = render.SnakeCase(s)
		}
		return s
	}
}
