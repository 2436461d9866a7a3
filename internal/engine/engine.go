// Package engine ties the loader, resolver, and scaffolder together for the
// top-level scaffold, list, and describe operations.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/output"
	"github.com/wrenworks/wren/internal/render"
	"github.com/wrenworks/wren/internal/resolver"
	"github.com/wrenworks/wren/internal/scaffold"
)

// Engine runs generator invocations against one generators root.
type Engine struct {
	root     string
	settings *config.Settings
}

// New creates an engine for the generators directory at root.
func New(root string) *Engine {
	return &Engine{root: root}
}

// FromSettings creates an engine configured by project settings.
func FromSettings(cfg *config.Settings) *Engine {
	return &Engine{root: cfg.GeneratorsRoot, settings: cfg}
}

// Request describes one scaffold or revert invocation.
type Request struct {
	Type       string
	Name       string
	ModuleName string
	ParentPath string
	Vars       map[string]string
	Revert     bool
	DryRun     bool
	Force      bool
}

// Scaffold applies (or reverts) the full dependency tree for req.Type.
// Per-file skips are non-fatal; missing revert targets are collected and
// joined into the returned error alongside the outcomes; any other error
// aborts the run where it happened.
func (e *Engine) Scaffold(ctx context.Context, req Request) ([]scaffold.Outcome, error) {
	if req.Type == "" {
		return nil, fmt.Errorf("generator type is required")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	defs, err := config.LoadAll(e.root)
	if err != nil {
		return nil, err
	}

	// A fresh renderer per invocation keeps helper registrations scoped to
	// this run.
	renderer := render.New()
	if err := registerHelpers(renderer, defs); err != nil {
		return nil, err
	}

	tctx := scaffold.NewContext(req.Name, req.ModuleName, req.ParentPath)
	tctx.ApplyVars(req.Vars)

	list, err := resolver.New(renderer, defs).Resolve(req.Type, tctx)
	if err != nil {
		return nil, err
	}

	scaffolder := scaffold.New(renderer)
	if e.settings != nil {
		scaffolder.Configure(e.settings)
	}
	opts := scaffold.Options{Revert: req.Revert, DryRun: req.DryRun, Force: req.Force}

	var outcomes []scaffold.Outcome
	var soft []error

	// Generators run strictly in dependency order: a later generator's
	// templates may read files written by an earlier one.
	for _, entry := range list {
		output.Verbose(fmt.Sprintf("applying generator %q (%d files)", entry.Def.Type, len(entry.Def.Files)))

		out, err := scaffolder.ApplyGenerator(ctx, entry.Def, entry.Context, opts)
		outcomes = append(outcomes, out...)
		if err != nil {
			var missing *scaffold.MissingTargetError
			if errors.As(err, &missing) {
				soft = append(soft, err)
				continue
			}
			return outcomes, err
		}
	}

	return outcomes, errors.Join(soft...)
}

// Summary is one generator's display metadata.
type Summary struct {
	Type        string
	Name        string
	Description string
}

// List enumerates the available generators. Read-only.
func (e *Engine) List() ([]Summary, error) {
	defs, err := config.LoadAll(e.root)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(defs))
	for i, def := range defs {
		summaries[i] = Summary{Type: def.Type, Name: def.Name, Description: def.Description}
	}
	return summaries, nil
}

// FileAction is one unrendered file action for introspection.
type FileAction struct {
	Method string
	Path   string
}

// Description is one generator's documentation plus its file actions.
type Description struct {
	Type        string
	Name        string
	Description string
	Files       []FileAction
}

// Describe resolves typ and reports each generator's file actions with the
// root generator first and its dependencies after. Read-only: paths are the
// raw destination templates.
func (e *Engine) Describe(typ string) ([]Description, error) {
	defs, err := config.LoadAll(e.root)
	if err != nil {
		return nil, err
	}

	renderer := render.New()
	if err := registerHelpers(renderer, defs); err != nil {
		return nil, err
	}

	// A placeholder context: introspection renders nothing to disk, and
	// destination templates are reported raw.
	tctx := scaffold.NewContext("name", "", "")

	list, err := resolver.New(renderer, defs).Resolve(typ, tctx)
	if err != nil {
		return nil, err
	}

	descriptions := make([]Description, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		def := list[i].Def

		files := make([]FileAction, len(def.Files))
		for j, f := range def.Files {
			path := f.Base
			if f.ParentPath != "" {
				path = f.ParentPath + "/" + f.Base
			}
			files[j] = FileAction{Method: f.Method, Path: path}
		}

		descriptions = append(descriptions, Description{
			Type:        def.Type,
			Name:        def.Name,
			Description: def.Description,
			Files:       files,
		})
	}

	return descriptions, nil
}

// registerHelpers loads every generator's optional helpers unit onto the
// renderer.
func registerHelpers(renderer *render.Renderer, defs []*config.Definition) error {
	for _, def := range defs {
		if def.HelpersPath == "" {
			continue
		}

		helpers, err := config.LoadHelpers(def.HelpersPath)
		if err != nil {
			return err
		}
		if err := helpers.Register(renderer); err != nil {
			return fmt.Errorf("generator %q: %w", def.Type, err)
		}
	}
	return nil
}
