// Package resolver flattens the generator dependency graph into a
// deterministic, leaf-first execution order.
package resolver

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jinzhu/copier"

	"github.com/wrenworks/wren/internal/config"
	"github.com/wrenworks/wren/internal/output"
	"github.com/wrenworks/wren/internal/render"
	"github.com/wrenworks/wren/internal/scaffold"
)

// UnknownGeneratorError reports a dependency on a type with no definition.
type UnknownGeneratorError struct {
	Type string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("unknown generator type %q", e.Type)
}

// CyclicDependencyError reports a generator type that reappears on its own
// dependency path.
type CyclicDependencyError struct {
	Stack []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic generator dependency: %s", strings.Join(e.Stack, " -> "))
}

// Resolved pairs a cloned, override-adjusted definition with the context it
// must be applied under.
type Resolved struct {
	Def     *config.Definition
	Context *scaffold.Context
}

// Resolver expands dependency edges against a fixed set of definitions.
type Resolver struct {
	renderer *render.Renderer
	index    map[string]*config.Definition
}

// New builds a resolver over defs. Types are unique by construction, since
// each is a directory name.
func New(renderer *render.Renderer, defs []*config.Definition) *Resolver {
	index := make(map[string]*config.Definition, len(defs))
	for _, def := range defs {
		index[def.Type] = def
	}
	return &Resolver{renderer: renderer, index: index}
}

// Resolve returns the leaf-first ordered list for rootType: every entry's
// dependencies precede it, so a caller can apply the list top to bottom.
// Diamond dependencies appear once per parent edge, each under that edge's
// own overrides; downstream idempotent file operations absorb the
// duplicates. A type reappearing on its own path is a CyclicDependencyError.
func (r *Resolver) Resolve(rootType string, tctx *scaffold.Context) ([]Resolved, error) {
	return r.expand(rootType, tctx, nil, nil)
}

// expand clones the target, applies edge overrides to its file specs,
// recurses into its dependencies, then appends the target itself.
func (r *Resolver) expand(typ string, tctx *scaffold.Context, edge *config.DependencyRef, path []string) ([]Resolved, error) {
	if slices.Contains(path, typ) {
		return nil, &CyclicDependencyError{Stack: append(slices.Clone(path), typ)}
	}

	src, ok := r.index[typ]
	if !ok {
		return nil, &UnknownGeneratorError{Type: typ}
	}

	def := &config.Definition{}
	if err := copier.CopyWithOption(def, src, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("cloning generator %q: %w", typ, err)
	}

	ctx := tctx.Clone()
	ctx.Type = typ

	if edge != nil {
		if edge.Name != "" {
			ctx.SetName(edge.Name)
		}
		if edge.ParentPath != "" {
			ctx.ParentPath = edge.ParentPath
		}

		for i := range def.Files {
			f := &def.Files[i]
			if edge.ParentPath != "" {
				f.ParentPath = edge.ParentPath
			}
			if edge.Method != "" && f.MethodDefaulted {
				f.Method = edge.Method
				f.MethodDefaulted = false
			}
		}
	}

	stack := append(slices.Clone(path), typ)

	var out []Resolved
	for i := range def.Dependencies {
		dep := &def.Dependencies[i]

		// The edge's type is itself a template, so a generator can pick its
		// dependency from context data.
		depType, err := r.renderer.Render("dependency type", dep.Type, ctx.Data())
		if err != nil {
			output.Verbose(fmt.Sprintf("dependency type %q: %v (using raw text)", dep.Type, err))
			depType = dep.Type
		}

		sub, err := r.expand(depType, ctx.Clone(), dep, stack)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	return append(out, Resolved{Def: def, Context: ctx}), nil
}
