package scaffold

import (
	"strings"

	"github.com/wrenworks/wren/internal/render"
)

// Markers for caller-supplied template variables. A key beginning with
// VerbatimMarker is injected under its own name, marker included; a key
// beginning with StrippedMarker is injected under the name with the marker
// removed. Keys with neither marker are ignored.
const (
	VerbatimMarker = "_"
	StrippedMarker = "$"
)

// Context carries the substitution variables for one generator invocation.
// The shape is fixed; ad hoc variables live in Extra.
type Context struct {
	Name       string
	ModuleName string
	PluralName string
	ParentPath string
	Type       string
	Extra      map[string]any
}

// NewContext builds a context for name, deriving its plural form.
func NewContext(name, moduleName, parentPath string) *Context {
	return &Context{
		Name:       name,
		ModuleName: moduleName,
		PluralName: render.Pluralize(name),
		ParentPath: parentPath,
		Extra:      make(map[string]any),
	}
}

// SetName replaces the context's name and re-derives the plural form.
func (c *Context) SetName(name string) {
	c.Name = name
	c.PluralName = render.Pluralize(name)
}

// ApplyVars merges caller-supplied key/value pairs into Extra following the
// marker convention.
func (c *Context) ApplyVars(vars map[string]string) {
	for k, v := range vars {
		switch {
		case strings.HasPrefix(k, VerbatimMarker):
			c.Extra[k] = v
		case strings.HasPrefix(k, StrippedMarker):
			c.Extra[strings.TrimPrefix(k, StrippedMarker)] = v
		}
	}
}

// Clone deep-copies the context, covering nested maps and sequences in Extra,
// so sibling dependencies never observe each other's overrides.
func (c *Context) Clone() *Context {
	clone := *c
	clone.Extra = make(map[string]any, len(c.Extra))
	for k, v := range c.Extra {
		clone.Extra[k] = cloneValue(v)
	}
	return &clone
}

// Data returns the template data map. The fixed keys win over Extra.
func (c *Context) Data() map[string]any {
	data := make(map[string]any, len(c.Extra)+5)
	for k, v := range c.Extra {
		data[k] = v
	}
	data["name"] = c.Name
	data["moduleName"] = c.ModuleName
	data["pluralName"] = c.PluralName
	data["parentPath"] = c.ParentPath
	data["type"] = c.Type
	return data
}

// cloneValue deep-copies plain containers; scalars copy by value.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, x := range val {
			m[k] = cloneValue(x)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, x := range val {
			s[i] = cloneValue(x)
		}
		return s
	default:
		return v
	}
}
