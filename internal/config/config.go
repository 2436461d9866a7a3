// Package config loads generator definitions from a generators directory.
//
// Each immediate subdirectory of the root is one generator, identified by its
// directory name and described by a generator.yml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File methods supported by a FileSpec.
const (
	MethodCreate    = "create"
	MethodOverwrite = "overwrite"
	MethodAppend    = "append"
)

// ConfigFileName is the generator recipe file inside each generator directory.
const ConfigFileName = "generator.yml"

// HelpersFileName is the optional co-located helpers unit.
const HelpersFileName = "helpers.yml"

// ErrConfigNotFound is returned when the generators root directory is absent.
var ErrConfigNotFound = errors.New("generators directory not found")

// InvalidGeneratorError reports a subdirectory whose config is missing or
// unparsable. Loading fails rather than silently skipping the directory.
type InvalidGeneratorError struct {
	Type string
	Path string
	Err  error
}

func (e *InvalidGeneratorError) Error() string {
	return fmt.Sprintf("invalid generator %q (%s): %v", e.Type, e.Path, e.Err)
}

func (e *InvalidGeneratorError) Unwrap() error { return e.Err }

// Definition is one scaffolding recipe, frozen after normalization.
type Definition struct {
	Type         string          `yaml:"-"`
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description"`
	Files        []FileSpec      `yaml:"files"`
	Dependencies []DependencyRef `yaml:"dependencies"`

	// Dir is the generator's own directory; HelpersPath is set when a
	// co-located helpers unit exists on disk.
	Dir         string `yaml:"-"`
	HelpersPath string `yaml:"-"`
}

// FileSpec is one templated file action.
type FileSpec struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Method string `yaml:"method"`

	// Base and ParentPath are split from To at load time. ParentPath may be
	// empty, in which case the context's parentPath applies.
	Base       string `yaml:"-"`
	ParentPath string `yaml:"-"`

	// MethodDefaulted records that Method was absent in the config and
	// defaulted to create, so a dependency edge's method override may still
	// replace it.
	MethodDefaulted bool `yaml:"-"`
}

// DependencyRef is an edge in the generator graph. Type is itself a template,
// rendered through the context before lookup.
type DependencyRef struct {
	Type       string `yaml:"type"`
	Name       string `yaml:"name"`
	ParentPath string `yaml:"parentPath"`
	Method     string `yaml:"method"`
}

// LoadAll discovers and parses every generator under root. The returned
// definitions are ordered by type. A missing root is ErrConfigNotFound; a
// subdirectory that fails to parse is an InvalidGeneratorError.
func LoadAll(root string) ([]*Definition, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, root)
		}
		return nil, fmt.Errorf("reading generators directory %s: %w", root, err)
	}

	var defs []*Definition
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		def, err := load(root, entry.Name())
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	return defs, nil
}

// load parses and normalizes a single generator directory.
func load(root, typ string) (*Definition, error) {
	dir := filepath.Join(root, typ)
	configPath := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, &InvalidGeneratorError{Type: typ, Path: configPath, Err: err}
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &InvalidGeneratorError{Type: typ, Path: configPath, Err: err}
	}

	def.Type = typ
	def.Dir = dir

	for i := range def.Files {
		f := &def.Files[i]

		if f.Method == "" {
			f.Method = MethodCreate
			f.MethodDefaulted = true
		}
		if !validMethod(f.Method) {
			return nil, &InvalidGeneratorError{
				Type: typ,
				Path: configPath,
				Err:  fmt.Errorf("file %q has unknown method %q", f.From, f.Method),
			}
		}
		if f.From == "" {
			return nil, &InvalidGeneratorError{
				Type: typ,
				Path: configPath,
				Err:  fmt.Errorf("file entry %d has no source template", i),
			}
		}
		if f.To == "" {
			return nil, &InvalidGeneratorError{
				Type: typ,
				Path: configPath,
				Err:  fmt.Errorf("file %q has no destination", f.From),
			}
		}

		// Source templates resolve relative to the generator's directory.
		f.From = filepath.Join(dir, f.From)

		// Destinations are templates; the separator is literal, so the
		// path package splits them without touching substitution syntax.
		f.Base = path.Base(f.To)
		if parent := path.Dir(f.To); parent != "." {
			f.ParentPath = parent
		}
	}

	for i, dep := range def.Dependencies {
		if dep.Type == "" {
			return nil, &InvalidGeneratorError{
				Type: typ,
				Path: configPath,
				Err:  fmt.Errorf("dependency %d has no type", i),
			}
		}
		if dep.Method != "" && !validMethod(dep.Method) {
			return nil, &InvalidGeneratorError{
				Type: typ,
				Path: configPath,
				Err:  fmt.Errorf("dependency %q has unknown method %q", dep.Type, dep.Method),
			}
		}
	}

	// Detect the helpers unit by file existence, not convention alone.
	helpersPath := filepath.Join(dir, HelpersFileName)
	if _, err := os.Stat(helpersPath); err == nil {
		def.HelpersPath = helpersPath
	}

	return &def, nil
}

func validMethod(m string) bool {
	switch m {
	case MethodCreate, MethodOverwrite, MethodAppend:
		return true
	}
	return false
}
